package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

func TestBRL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0,00"},
		{"1.5", "1,50"},
		{"999.99", "999,99"},
		{"1000", "1.000,00"},
		{"1234.56", "1.234,56"},
		{"1234567.891", "1.234.567,89"},
		{"-1500.1", "-1.500,10"},
	}

	for _, tt := range tests {
		got := BRL(decimal.RequireFromString(tt.input))
		if got != tt.expected {
			t.Errorf("BRL(%s): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	if got := Date(d); got != "05/06/2025" {
		t.Errorf("got %q, want 05/06/2025", got)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 15/06/2025 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day() != 15 || got.Month() != time.June || got.Year() != 2025 {
		t.Errorf("got %v", got)
	}

	for _, bad := range []string{"", "2025-06-15", "31/02/2025", "15/6/25"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q): expected error", bad)
		}
	}
}

func TestTotal(t *testing.T) {
	records := []models.TitleRecord{
		{Total: decimal.RequireFromString("160.00")},
		{Total: decimal.RequireFromString("1500.25")},
		{Total: decimal.RequireFromString("0.75")},
	}
	if got := Total(records); !got.Equal(decimal.RequireFromString("1661")) {
		t.Errorf("got %s, want 1661", got)
	}
	if got := Total(nil); !got.IsZero() {
		t.Errorf("empty: got %s, want 0", got)
	}
}

func TestDisplayClient(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"MARIA OLIVEIRA", "MARIA OLIVEIRA"},
		{"JOAO SOARES (FUNCIONÁRIO)", "JOAO SOARES"},
		{"  ANA  (FUNCIONÁRIO) ", "ANA"},
		{"JOAO (Funcionario)", "JOAO"},
		{"(FUNCIONÁRIO) ANA", "ANA"},
	}

	for _, tt := range tests {
		if got := DisplayClient(tt.input); got != tt.expected {
			t.Errorf("DisplayClient(%q): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}
