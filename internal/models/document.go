package models

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// PageBreak separates pages in pre-extracted text (e.g. from client-side pdf.js).
const PageBreak = "\n---PAGE_BREAK---\n"

// Page is the ordered text lines of one document page. Number is 1-based.
type Page struct {
	Number int
	Lines  []string
}

// PagesFromText splits per-page text blobs into line sequences.
// Pages keep their position even when empty so numbering stays stable.
func PagesFromText(texts []string) []Page {
	pages := make([]Page, 0, len(texts))
	for i, text := range texts {
		pages = append(pages, Page{
			Number: i + 1,
			Lines:  strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"),
		})
	}
	return pages
}

// Layout is the vocabulary of the receivables report.
type Layout struct {
	// HeaderSeparator splits a client header into code and name ("1234 - NAME").
	HeaderSeparator string `yaml:"header_separator" json:"headerSeparator"`
	// StatusKeyword starts every second line of a título ("Aberto").
	StatusKeyword string `yaml:"status_keyword" json:"statusKeyword"`
	// Markers identify the first line of a título ("Loja", "Crediario").
	Markers []string `yaml:"markers" json:"markers"`
}

// DefaultLayout returns the vocabulary of the standard "títulos a receber" report.
func DefaultLayout() Layout {
	return Layout{
		HeaderSeparator: "-",
		StatusKeyword:   "Aberto",
		Markers:         []string{"Loja", "Crediario"},
	}
}

// Validate reports whether the layout can drive a parse.
func (l Layout) Validate() error {
	if l.HeaderSeparator == "" {
		return eris.New("layout: header separator must not be empty")
	}
	if l.StatusKeyword == "" {
		return eris.New("layout: status keyword must not be empty")
	}
	if len(l.Markers) == 0 {
		return eris.New("layout: at least one line marker is required")
	}
	for _, m := range l.Markers {
		if strings.TrimSpace(m) == "" {
			return eris.New("layout: markers must not be blank")
		}
	}
	return nil
}

// DocumentReadError means the document could not be opened or decoded into
// text. It is fatal to the whole parse.
type DocumentReadError struct {
	Path string
	Err  error
}

func (e *DocumentReadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("document read failed: %v", e.Err)
	}
	return fmt.Sprintf("document read failed for %s: %v", e.Path, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}
