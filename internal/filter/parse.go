package filter

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/receivables-extractor/internal/format"
	"github.com/insightdelivered/receivables-extractor/internal/parser"
)

// Input is the textual form of Criteria, as received from flags or a form.
type Input struct {
	Client   string
	Title    string
	DueFrom  string
	DueTo    string
	MinTotal string
	MaxTotal string
}

// Parse converts in to Criteria. Dates are dd/mm/yyyy; totals are either
// Brazilian ("1.500,00") or canonical ("1500.00").
func Parse(in Input) (Criteria, error) {
	c := Criteria{
		Client: strings.TrimSpace(in.Client),
		Title:  strings.TrimSpace(in.Title),
	}

	if s := strings.TrimSpace(in.DueFrom); s != "" {
		t, err := format.ParseDate(s)
		if err != nil {
			return Criteria{}, eris.Wrap(err, "dueFrom")
		}
		c.DueFrom = &t
	}
	if s := strings.TrimSpace(in.DueTo); s != "" {
		t, err := format.ParseDate(s)
		if err != nil {
			return Criteria{}, eris.Wrap(err, "dueTo")
		}
		c.DueTo = &t
	}
	if s := strings.TrimSpace(in.MinTotal); s != "" {
		d, err := parseTotal(s)
		if err != nil {
			return Criteria{}, eris.Wrap(err, "minTotal")
		}
		c.MinTotal = &d
	}
	if s := strings.TrimSpace(in.MaxTotal); s != "" {
		d, err := parseTotal(s)
		if err != nil {
			return Criteria{}, eris.Wrap(err, "maxTotal")
		}
		c.MaxTotal = &d
	}

	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

var (
	// "1.500" and "12.345.678" group thousands; there is no decimal point.
	groupedThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	canonicalAmount  = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// parseTotal reads "1.500,00", "1.500" and "1500" as Brazilian amounts and
// "1500.75" as canonical.
func parseTotal(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") || groupedThousands.MatchString(s) {
		return parser.ParseAmount(s)
	}
	if !canonicalAmount.MatchString(s) {
		return decimal.Decimal{}, eris.Errorf("invalid amount %q, want 1.500,00 or 1500.00", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, eris.Wrapf(err, "invalid amount %q", s)
	}
	return d, nil
}
