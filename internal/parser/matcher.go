package parser

import (
	"strings"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// IsCandidatePair reports whether two consecutive lines encode one título:
// the first carries a line marker, the second opens with the status
// keyword, and a client is in context.
func IsCandidatePair(layout models.Layout, l1, l2 string, client ClientContext) bool {
	return containsAny(normalizeLine(l1), layout.Markers) &&
		strings.HasPrefix(normalizeLine(l2), layout.StatusKeyword) &&
		client.IsSet()
}
