package parser

import (
	"strings"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// ClientContext is the client whose títulos are currently being listed.
// The zero value is unset: no header has been seen yet.
type ClientContext struct {
	Name string
	set  bool
}

// IsSet reports whether a client header has been seen.
func (c ClientContext) IsSet() bool {
	return c.set
}

// Observe returns the context that follows line. When line is a client
// header the returned context carries the new name and ok is true;
// otherwise c is returned unchanged.
//
// A header with a blank name resets the context to unset.
func (c ClientContext) Observe(layout models.Layout, line string) (next ClientContext, ok bool) {
	name, ok := ClientHeader(layout, line)
	if !ok {
		return c, false
	}
	if name == "" {
		return ClientContext{}, true
	}
	return ClientContext{Name: name, set: true}, true
}

// ClientHeader reports whether line introduces a client and returns the
// client name, which is everything after the first separator.
//
// Headers look like "1234 - MARIA OLIVEIRA": they contain the separator,
// do not start with the status keyword and carry none of the line markers.
func ClientHeader(layout models.Layout, line string) (string, bool) {
	line = normalizeLine(line)
	if !strings.Contains(line, layout.HeaderSeparator) {
		return "", false
	}
	if strings.HasPrefix(line, layout.StatusKeyword) {
		return "", false
	}
	if containsAny(line, layout.Markers) {
		return "", false
	}
	_, name, _ := strings.Cut(line, layout.HeaderSeparator)
	return strings.TrimSpace(name), true
}
