package parser

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// Parser defines the interface for report parsers.
type Parser interface {
	// Parse takes the extracted pages and returns structured títulos plus
	// diagnostics for the pairs it had to skip.
	Parse(pages []models.Page) *models.ParseResult
	// LayoutName returns the human-readable report name.
	LayoutName() string
}

// LineSource supplies the pages of one document, in order.
type LineSource interface {
	Pages(ctx context.Context) ([]models.Page, error)
}

// New returns a parser for the given report vocabulary.
func New(layout models.Layout, logger *zap.Logger) (Parser, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &ReceivablesParser{Layout: layout, Logger: logger}, nil
}

// ParseSource reads every page from src and parses them. A source failure
// is returned unchanged and no partial result is produced.
func ParseSource(ctx context.Context, src LineSource, p Parser) (*models.ParseResult, error) {
	pages, err := src.Pages(ctx)
	if err != nil {
		return nil, err
	}
	return p.Parse(pages), nil
}

// LooksLikeReport reports whether the text carries the report vocabulary at
// all: at least one line opening with the status keyword and one line with
// a marker. Documents failing this check will yield no records.
func LooksLikeReport(pages []models.Page, layout models.Layout) bool {
	var hasStatus, hasMarker bool
	for _, page := range pages {
		for _, line := range page.Lines {
			line = normalizeLine(line)
			if strings.HasPrefix(line, layout.StatusKeyword) {
				hasStatus = true
			} else if containsAny(line, layout.Markers) {
				hasMarker = true
			}
			if hasStatus && hasMarker {
				return true
			}
		}
	}
	return false
}
