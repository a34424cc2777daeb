package extractor

import (
	"testing"
)

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{"report page", []string{"1234 - MARIA\nT001 JOAO 5521 Loja01 DIN 150,00\nAberto 15/06/2025 CC 0,00 0,00 150,00"}, true},
		{"vocabulary on a later page", []string{"", "RELATORIO DE TITULOS A RECEBER - Pagina 2"}, true},
		{"too short", []string{"Aberto"}, false},
		{"no known words", []string{"lorem ipsum dolor sit amet consectetur"}, false},
		{"garbage glyphs", []string{"\u0001\u0002\u0003\u0004\u0005\u0006\u0007\u0008 aberto \u000e\u000f\u0010\u0011\u0012\u0013\u0014\u0015\u0016\u0017\u0018\u0019\u001a\u001b\u001c"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReadableText(tt.pages); got != tt.want {
				t.Errorf("isReadableText() = %v, want %v (quality %.2f)", got, tt.want, textQuality(tt.pages))
			}
		})
	}
}

func TestTextQuality(t *testing.T) {
	if q := textQuality([]string{"Crediário São João 1.500,00"}); q != 1 {
		t.Errorf("accented report text: got %.2f, want 1", q)
	}
	if q := textQuality(nil); q != 0 {
		t.Errorf("empty: got %.2f, want 0", q)
	}
}

func TestCollapseLayoutSpacing(t *testing.T) {
	in := "   1234 - MARIA      \n\n  T001   JOAO    5521  \n   \n"
	want := "1234 - MARIA\nT001   JOAO    5521"

	if got := collapseLayoutSpacing(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizePages(t *testing.T) {
	got := normalizePages([]string{"Credia\u0301rio", ""})
	if got[0] != "Credi\u00E1rio" {
		t.Errorf("got %q, want composed form", got[0])
	}
	if got[1] != "" {
		t.Errorf("blank page must stay blank, got %q", got[1])
	}
}

// glyphs lays s out one rune per run, 6pt apart, the way some report
// generators emit text. A space in s becomes a wider gap, not a run.
func glyphs(x float64, s string) []textItem {
	var items []textItem
	for _, r := range s {
		if r != ' ' {
			items = append(items, textItem{x: x, w: 5.5, size: 10, s: string(r)})
		}
		x += 6
	}
	return items
}

func TestJoinRow(t *testing.T) {
	tests := []struct {
		name  string
		items []textItem
		want  string
	}{
		{"single glyph runs", glyphs(40, "T001 JOAO 5521"), "T001 JOAO 5521"},
		{
			"explicit space runs",
			[]textItem{
				{x: 10, w: 5, size: 10, s: "T"},
				{x: 15, w: 2.5, size: 10, s: " "},
				{x: 17.5, w: 5, size: 10, s: "A"},
			},
			"T A",
		},
		{
			"word runs out of order",
			[]textItem{
				{x: 120, w: 25, size: 10, s: "150,00"},
				{x: 10, w: 20, size: 10, s: "T001"},
				{x: 40, w: 22, size: 10, s: "JOAO"},
			},
			"T001 JOAO 150,00",
		},
		{
			"no width or size",
			[]textItem{
				{x: 10, s: "A"},
				{x: 15, s: "B"},
				{x: 40, s: "C"},
			},
			"AB C",
		},
		{"only spaces", []textItem{{x: 0, w: 3, size: 10, s: " "}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinRow(tt.items); got != tt.want {
				t.Errorf("joinRow() = %q, want %q", got, tt.want)
			}
		})
	}
}
