package parser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"1.234,56", "1234.56", false},
		{"0,00", "0", false},
		{"150,00", "150", false},
		{"1.234.567,89", "1234567.89", false},
		{"150", "150", false},
		{",50", "0.5", false},
		{"10,5", "10.5", false},
		{"abc", "", true},
		{"", "", true},
		{"-10,00", "", true},
		{"1,2,3", "", true},
		{"R$10,00", "", true},
		{"12,", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				if !errors.Is(err, ErrInvalidNumericToken) {
					t.Errorf("error %v is not ErrInvalidNumericToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.234,56", "1234.56"},
		{"0,00", "0.00"},
		{"150,00", "150.00"},
		{",75", "0.75"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeAmount(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("NormalizeAmount(%q): got %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"5521", true},
		{"0", true},
		{"", false},
		{"55a1", false},
		{"Loja01", false},
		{"1.000", false},
		{"٣", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isDigits(tt.input); got != tt.expected {
				t.Errorf("isDigits(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLine(t *testing.T) {
	got := normalizeLine("  Aberto\u00A015/06/2025\u200B ")
	if got != "Aberto 15/06/2025" {
		t.Errorf("got %q, want %q", got, "Aberto 15/06/2025")
	}
}
