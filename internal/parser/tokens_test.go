package parser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

func TestFindInvoice(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		wantIdx int
		wantOK  bool
	}{
		{"numeric before name", []string{"T001", "JOAO", "SOARES", "5521", "Loja01", "DIN", "150,00"}, 3, true},
		{"no name", []string{"T001", "5521", "Loja01", "DIN", "150,00"}, 1, true},
		{"last numeric wins", []string{"T001", "JOAO", "42", "SOARES", "5521", "Loja01", "DIN", "150,00"}, 4, true},
		{"numeric name part skipped past", []string{"T001", "JOAO", "7", "SOARES", "FILHO", "Loja01", "DIN", "150,00"}, 2, true},
		{"title never considered", []string{"1001", "JOAO", "SOARES", "Loja01", "DIN", "150,00"}, -1, false},
		{"none", []string{"T001", "JOAO", "SOARES", "X1", "Loja01", "DIN", "150,00"}, -1, false},
		{"too short", []string{"Loja01", "DIN", "150,00"}, -1, false},
		{"empty", nil, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := findInvoice(tt.tokens)
			if idx != tt.wantIdx || ok != tt.wantOK {
				t.Errorf("findInvoice(%v) = (%d, %v), want (%d, %v)", tt.tokens, idx, ok, tt.wantIdx, tt.wantOK)
			}
		})
	}
}

func TestExtractPair(t *testing.T) {
	f, err := ExtractPair(
		"T001 JOAO SOARES 5521 Loja01 DIN 150,00",
		"Aberto 15/06/2025 CC123 10,00 0,00 160,00",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	strs := []struct {
		field, got, want string
	}{
		{"Title", f.Title, "T001"},
		{"Name", f.Name, "JOAO SOARES"},
		{"Invoice", f.Invoice, "5521"},
		{"Location", f.Location, "Loja01"},
		{"PaymentType", f.PaymentType, "DIN"},
		{"Status", f.Status, "Aberto"},
		{"DueDate", f.DueDate, "15/06/2025"},
		{"Account", f.Account, "CC123"},
	}
	for _, s := range strs {
		if s.got != s.want {
			t.Errorf("%s: got %q, want %q", s.field, s.got, s.want)
		}
	}

	amounts := []struct {
		field string
		got   decimal.Decimal
		want  string
	}{
		{"AddDisc", f.AddDisc, "10.00"},
		{"Interest", f.Interest, "0.00"},
		{"Original", f.Original, "150.00"},
		{"Total", f.Total, "160.00"},
	}
	for _, a := range amounts {
		if !a.got.Equal(decimal.RequireFromString(a.want)) {
			t.Errorf("%s: got %s, want %s", a.field, a.got, a.want)
		}
	}
}

func TestExtractPair_AccountVariants(t *testing.T) {
	tests := []struct {
		name string
		l2   string
		want string
	}{
		{"empty account", "Aberto 15/06/2025 10,00 0,00 160,00", ""},
		{"account with spaces", "Aberto 15/06/2025 CC 12 - A 10,00 0,00 160,00", "CC 12 - A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ExtractPair("T001 JOAO 5521 Loja01 DIN 150,00", tt.l2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Account != tt.want {
				t.Errorf("Account: got %q, want %q", f.Account, tt.want)
			}
		})
	}
}

func TestExtractPair_Failures(t *testing.T) {
	tests := []struct {
		name       string
		l1, l2     string
		wantReason models.ReasonCode
		wantErr    error
	}{
		{
			name:       "non-numeric total",
			l1:         "T001 JOAO 5521 Loja01 DIN 150,00",
			l2:         "Aberto 15/06/2025 CC123 10,00 0,00 XX",
			wantReason: models.ReasonInvalidNumericTail,
			wantErr:    ErrInvalidNumericToken,
		},
		{
			name:       "non-numeric interest",
			l1:         "T001 JOAO 5521 Loja01 DIN 150,00",
			l2:         "Aberto 15/06/2025 CC123 10,00 n/a 160,00",
			wantReason: models.ReasonInvalidNumericTail,
			wantErr:    ErrInvalidNumericToken,
		},
		{
			name:       "gate runs before first-line checks",
			l1:         "Loja01",
			l2:         "Aberto 15/06/2025 CC123 10,00 0,00 total",
			wantReason: models.ReasonInvalidNumericTail,
			wantErr:    ErrInvalidNumericToken,
		},
		{
			name:       "bad original amount",
			l1:         "T001 JOAO 5521 Loja01 DIN 150.00x",
			l2:         "Aberto 15/06/2025 CC123 10,00 0,00 160,00",
			wantReason: models.ReasonInvalidNumericToken,
			wantErr:    ErrInvalidNumericToken,
		},
		{
			name:       "no invoice",
			l1:         "T001 JOAO SOARES Loja01 DIN 150,00",
			l2:         "Aberto 15/06/2025 CC123 10,00 0,00 160,00",
			wantReason: models.ReasonInvoiceNotFound,
			wantErr:    ErrInvoiceTokenNotFound,
		},
		{
			name:       "short second line",
			l1:         "T001 JOAO 5521 Loja01 DIN 150,00",
			l2:         "Aberto 10,00 0,00 160,00",
			wantReason: models.ReasonMalformedPair,
			wantErr:    ErrMalformedPair,
		},
		{
			name:       "short first line",
			l1:         "Loja01 DIN 150,00",
			l2:         "Aberto 15/06/2025 10,00 0,00 160,00",
			wantReason: models.ReasonMalformedPair,
			wantErr:    ErrMalformedPair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPair(tt.l1, tt.l2)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var pe *PairError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *PairError, got %T", err)
			}
			if pe.Reason != tt.wantReason {
				t.Errorf("reason: got %q, want %q", pe.Reason, tt.wantReason)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tt.wantErr)
			}
		})
	}
}
