// Package filter narrows parsed títulos by client, title, due date and total.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/receivables-extractor/internal/format"
	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// AllClients is the select-all value the upload page sends.
const AllClients = "Todos"

// Criteria holds the active filters. Zero fields match everything; bounds
// are inclusive.
type Criteria struct {
	Client   string
	Title    string
	DueFrom  *time.Time
	DueTo    *time.Time
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
}

// Validate rejects inverted ranges.
func (c Criteria) Validate() error {
	if c.DueFrom != nil && c.DueTo != nil && c.DueFrom.After(*c.DueTo) {
		return eris.Errorf("due date range is inverted: %s > %s", format.Date(*c.DueFrom), format.Date(*c.DueTo))
	}
	if c.MinTotal != nil && c.MaxTotal != nil && c.MinTotal.GreaterThan(*c.MaxTotal) {
		return eris.Errorf("total range is inverted: %s > %s", format.BRL(*c.MinTotal), format.BRL(*c.MaxTotal))
	}
	return nil
}

// IsZero reports whether no filter is active.
func (c Criteria) IsZero() bool {
	return !c.hasClient() && c.Title == "" && c.DueFrom == nil && c.DueTo == nil &&
		c.MinTotal == nil && c.MaxTotal == nil
}

func (c Criteria) hasClient() bool {
	return c.Client != "" && c.Client != AllClients
}

// Match reports whether r passes every active filter. A record whose due
// date does not parse fails any active date bound.
func (c Criteria) Match(r models.TitleRecord) bool {
	if c.hasClient() && r.Client != c.Client {
		return false
	}
	if c.Title != "" && r.Title != c.Title {
		return false
	}
	if c.DueFrom != nil || c.DueTo != nil {
		due, err := format.ParseDate(r.DueDate)
		if err != nil {
			return false
		}
		if c.DueFrom != nil && due.Before(*c.DueFrom) {
			return false
		}
		if c.DueTo != nil && due.After(*c.DueTo) {
			return false
		}
	}
	if c.MinTotal != nil && r.Total.LessThan(*c.MinTotal) {
		return false
	}
	if c.MaxTotal != nil && r.Total.GreaterThan(*c.MaxTotal) {
		return false
	}
	return true
}

// Apply returns the records that match c, in their original order.
func Apply(records []models.TitleRecord, c Criteria) []models.TitleRecord {
	if c.IsZero() {
		return records
	}
	out := make([]models.TitleRecord, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Options lists the values a filter form can offer for a result set.
type Options struct {
	Clients  []string        `json:"clients"`
	Titles   []string        `json:"titles"`
	DueMin   string          `json:"dueMin,omitempty"`
	DueMax   string          `json:"dueMax,omitempty"`
	MinTotal decimal.Decimal `json:"minTotal"`
	MaxTotal decimal.Decimal `json:"maxTotal"`
}

// OptionsFor computes the filter options. When client names a single
// client, titles, dates and totals are restricted to that client; the
// client list always covers every record.
func OptionsFor(records []models.TitleRecord, client string) Options {
	opts := Options{Clients: distinct(records, func(r models.TitleRecord) string { return r.Client })}

	if client != "" && client != AllClients {
		records = Apply(records, Criteria{Client: client})
	}
	opts.Titles = distinct(records, func(r models.TitleRecord) string { return r.Title })

	var minDue, maxDue time.Time
	for i, r := range records {
		if i == 0 || r.Total.LessThan(opts.MinTotal) {
			opts.MinTotal = r.Total
		}
		if i == 0 || r.Total.GreaterThan(opts.MaxTotal) {
			opts.MaxTotal = r.Total
		}
		due, err := format.ParseDate(r.DueDate)
		if err != nil {
			continue
		}
		if minDue.IsZero() || due.Before(minDue) {
			minDue = due
		}
		if maxDue.IsZero() || due.After(maxDue) {
			maxDue = due
		}
	}
	if !minDue.IsZero() {
		opts.DueMin = format.Date(minDue)
		opts.DueMax = format.Date(maxDue)
	}
	return opts
}

func distinct(records []models.TitleRecord, key func(models.TitleRecord) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
