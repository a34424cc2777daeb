package parser

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// monetaryPattern is a Brazilian amount once thousands separators are gone:
// digits with an optional decimal comma ("1234,56", "0,00", "150").
var monetaryPattern = regexp.MustCompile(`^(\d+(,\d+)?|,\d+)$`)

// NormalizeAmount converts "1.234,56" into the canonical "1234.56".
func NormalizeAmount(token string) (string, error) {
	s := strings.ReplaceAll(token, ".", "")
	if !monetaryPattern.MatchString(s) {
		return "", eris.Wrapf(ErrInvalidNumericToken, "amount %q", token)
	}
	s = strings.Replace(s, ",", ".", 1)
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	return s, nil
}

// ParseAmount converts a Brazilian amount token into a decimal.
func ParseAmount(token string) (decimal.Decimal, error) {
	s, err := NormalizeAmount(token)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, eris.Wrapf(ErrInvalidNumericToken, "amount %q: %v", token, err)
	}
	return d, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u200B", "")
	line = strings.ReplaceAll(line, "\u00A0", " ")
	return strings.TrimSpace(line)
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
