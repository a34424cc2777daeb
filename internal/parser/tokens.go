package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// A título needs at least title, invoice, location, type and original amount
// on its first line, and status, due date and three amounts on its second.
const (
	minFirstLineTokens  = 5
	minSecondLineTokens = 5
)

// TitleFields is the field set extracted from one matched line pair.
//
// First line:  TITLE NAME... INVOICE LOCATION TYPE ORIGINAL
// Second line: STATUS DUE ACCOUNT... ADD_DISC INTEREST TOTAL
type TitleFields struct {
	Title       string
	Name        string
	Invoice     string
	Location    string
	PaymentType string
	Original    decimal.Decimal

	Status   string
	DueDate  string
	Account  string
	AddDisc  decimal.Decimal
	Interest decimal.Decimal
	Total    decimal.Decimal
}

// ExtractPair splits a matched pair into tokens, validates the numeric tail
// of the second line and pulls out every field. Any failure is a *PairError.
func ExtractPair(l1, l2 string) (TitleFields, error) {
	var f TitleFields
	p1 := strings.Fields(l1)
	p2 := strings.Fields(l2)

	if len(p2) < minSecondLineTokens {
		return f, pairErr(models.ReasonMalformedPair, ErrMalformedPair, l2)
	}

	// The last three tokens of the second line must be amounts before
	// anything else is read.
	tail := p2[len(p2)-3:]
	amounts := make([]decimal.Decimal, len(tail))
	for i, tok := range tail {
		d, err := ParseAmount(tok)
		if err != nil {
			return f, pairErr(models.ReasonInvalidNumericTail, err, tok)
		}
		amounts[i] = d
	}

	if len(p1) < minFirstLineTokens {
		return f, pairErr(models.ReasonMalformedPair, ErrMalformedPair, l1)
	}

	original, err := ParseAmount(p1[len(p1)-1])
	if err != nil {
		return f, pairErr(models.ReasonInvalidNumericToken, err, p1[len(p1)-1])
	}

	invoiceIdx, ok := findInvoice(p1)
	if !ok {
		return f, pairErr(models.ReasonInvoiceNotFound, ErrInvoiceTokenNotFound, l1)
	}

	f.Title = p1[0]
	f.Name = strings.Join(p1[1:invoiceIdx], " ")
	f.Invoice = p1[invoiceIdx]
	f.Location = p1[len(p1)-3]
	f.PaymentType = p1[len(p1)-2]
	f.Original = original

	f.Status = p2[0]
	f.DueDate = p2[1]
	f.Account = strings.Join(p2[2:len(p2)-3], " ")
	f.AddDisc = amounts[0]
	f.Interest = amounts[1]
	f.Total = amounts[2]
	return f, nil
}

// findInvoice walks backwards from the fourth-from-last token towards the
// front and returns the index of the first all-digit token. The title at
// index 0 is never considered.
func findInvoice(tokens []string) (int, bool) {
	for i := len(tokens) - 4; i >= 1; i-- {
		if isDigits(tokens[i]) {
			return i, true
		}
	}
	return -1, false
}
