package models

import (
	"github.com/shopspring/decimal"
)

// TitleRecord is one open título reconstructed from a pair of report lines.
type TitleRecord struct {
	Client      string          `json:"client"`
	Status      string          `json:"status"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	Invoice     string          `json:"invoice"`
	Location    string          `json:"location"`
	PaymentType string          `json:"paymentType"`
	DueDate     string          `json:"dueDate"` // literal token, e.g. 15/06/2025
	Account     string          `json:"account"`
	AddDisc     decimal.Decimal `json:"addDisc"`
	Interest    decimal.Decimal `json:"interest"`
	Original    decimal.Decimal `json:"original"`
	Total       decimal.Decimal `json:"total"`
	Page        int             `json:"page"`
	Line        int             `json:"line"`
}

// ReasonCode classifies why a candidate line pair produced no record.
type ReasonCode string

const (
	ReasonInvalidNumericTail  ReasonCode = "invalid-numeric-tail"
	ReasonInvalidNumericToken ReasonCode = "invalid-numeric-token"
	ReasonInvoiceNotFound     ReasonCode = "invoice-token-not-found"
	ReasonMalformedPair       ReasonCode = "malformed-pair"
	ReasonMissingClient       ReasonCode = "missing-client-context"
)

// RawLine is a single line of extracted text with its source coordinates.
// Page and Line are 1-based.
type RawLine struct {
	Page int
	Line int
	Text string
}

// SkipDiagnostic records a candidate pair that was dropped.
type SkipDiagnostic struct {
	Page    int        `json:"page"`
	Line    int        `json:"line"`
	Content string     `json:"content"`
	Reason  ReasonCode `json:"reason"`
	Detail  string     `json:"detail,omitempty"`
}

// DebugLine captures what the parser did with each input line.
type DebugLine struct {
	Page   int    `json:"page"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Result string `json:"result"` // "header", "record", "skipped", "noise"
	Client string `json:"client,omitempty"`
}

// ParseResult is everything the extraction engine produced for one document.
type ParseResult struct {
	Records    []TitleRecord    `json:"records"`
	Skipped    []SkipDiagnostic `json:"skipped"`
	Pages      int              `json:"pages"`
	Lines      int              `json:"lines"`
	DebugLines []DebugLine      `json:"debugLines,omitempty"`
}

// NewParseResult returns an empty result whose slices encode as [] rather than null.
func NewParseResult() *ParseResult {
	return &ParseResult{
		Records: []TitleRecord{},
		Skipped: []SkipDiagnostic{},
	}
}

// Add appends a record, preserving document order.
func (r *ParseResult) Add(rec TitleRecord) {
	r.Records = append(r.Records, rec)
}

// Skip appends a diagnostic, preserving document order.
func (r *ParseResult) Skip(d SkipDiagnostic) {
	r.Skipped = append(r.Skipped, d)
}
