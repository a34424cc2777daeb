// Package format renders títulos for people: Brazilian currency and dates,
// and the client names as they appear in the report.
package format

import (
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// DateLayout is the dd/mm/yyyy form used by the report.
const DateLayout = "02/01/2006"

// employeeTag marks staff accounts in the client header.
var employeeTag = regexp.MustCompile(`(?i)\s*\(FUNCION[AÁ]RIO\)`)

// BRL formats d with two decimals, '.' thousands and ',' decimal separators:
// 1234.5 -> "1.234,50".
func BRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// Date formats t as dd/mm/yyyy.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a dd/mm/yyyy due date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "invalid date %q, want dd/mm/yyyy", s)
	}
	return t, nil
}

// Total sums the R$ Total column.
func Total(records []models.TitleRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Total)
	}
	return sum
}

// DisplayClient strips the "(FUNCIONÁRIO)" tag from a client name.
func DisplayClient(name string) string {
	return strings.TrimSpace(employeeTag.ReplaceAllString(name, ""))
}
