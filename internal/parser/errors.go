package parser

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// Recoverable, per-pair failures. Each one turns into a single
// SkipDiagnostic and the scan moves on.
var (
	ErrInvalidNumericToken  = eris.New("invalid numeric token")
	ErrInvoiceTokenNotFound = eris.New("invoice token not found")
	ErrMalformedPair        = eris.New("malformed line pair")
	ErrNoClientContext      = eris.New("no client context")
)

// PairError is the failure of one candidate line pair.
type PairError struct {
	Reason models.ReasonCode
	Token  string
	Err    error
}

func (e *PairError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %v (%q)", e.Reason, e.Err, e.Token)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

func pairErr(reason models.ReasonCode, err error, token string) *PairError {
	return &PairError{Reason: reason, Token: token, Err: err}
}
