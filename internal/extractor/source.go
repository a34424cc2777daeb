package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// PDFSource supplies the pages of a PDF file on disk.
type PDFSource struct {
	Path string
}

func (s PDFSource) Pages(ctx context.Context) ([]models.Page, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, &models.DocumentReadError{Path: s.Path, Err: eris.Wrap(err, "stat document")}
	}
	texts, err := ExtractText(ctx, s.Path)
	if err != nil {
		return nil, err
	}
	return models.PagesFromText(texts), nil
}

// TextSource supplies pages from text that was already extracted elsewhere
// (e.g. client-side pdf.js, or a .txt dump). Pages are separated by
// models.PageBreak.
type TextSource struct {
	Name string
	Text string
}

func (s TextSource) Pages(ctx context.Context) ([]models.Page, error) {
	text := strings.ReplaceAll(s.Text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, &models.DocumentReadError{Path: s.Name, Err: eris.New("extracted text is empty")}
	}
	return models.PagesFromText(strings.Split(norm.NFC.String(text), models.PageBreak)), nil
}

// FileSource picks the source for a path: PDFs are decoded, anything else
// is read as pre-extracted text.
func FileSource(path string) (LineSource, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return PDFSource{Path: path}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.DocumentReadError{Path: path, Err: eris.Wrap(err, "read text document")}
	}
	return TextSource{Name: path, Text: string(data)}, nil
}

// LineSource mirrors parser.LineSource so callers can hold either source
// without this package importing the parser.
type LineSource interface {
	Pages(ctx context.Context) ([]models.Page, error)
}
