package extractor

import (
	"context"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// ExtractText reads a PDF file and returns the text content of each page,
// one report line per text line.
// It tries the structured library first (row grouping, then coordinate-based
// row reconstruction) and falls back to the external pdftotext command
// (poppler-utils). Any failure is a *models.DocumentReadError.
func ExtractText(ctx context.Context, filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return normalizePages(pages), nil
	}

	popplerPages, popplerErr := extractWithPdftotext(ctx, filePath)
	if popplerErr == nil && isReadableText(popplerPages) {
		return normalizePages(popplerPages), nil
	}

	// Never hand garbage to the parser
	if libErr != nil {
		return nil, &models.DocumentReadError{Path: filePath, Err: eris.Wrap(libErr, "PDF text extraction failed")}
	}
	return nil, &models.DocumentReadError{
		Path: filePath,
		Err:  eris.New("no readable text could be extracted; the file may be image-based/scanned or use custom font encodings"),
	}
}

// textQuality returns the ratio of readable characters (letters incl.
// Portuguese accents, digits, common punctuation, whitespace) to total
// characters. Returns 0.0-1.0.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (unicode.IsLetter(r) && r < 0x250) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear in virtually every receivables report.
// If the extracted text contains none of these, it's likely garbage.
var commonWords = []string{
	"aberto", "loja", "crediario", "crediário", "cliente", "titulo", "título",
	"fatura", "vencimento", "total", "valor", "receber", "juros", "pagina", "página",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires >20 chars, >60% readable characters and at least
// one recognizable word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 20 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

// normalizePages converts every page to NFC so accented client names
// compare equal however the PDF encoded them.
func normalizePages(pages []string) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = norm.NFC.String(p)
	}
	return out
}

// extractWithPdftotext uses the external pdftotext command from poppler-utils
// for PDFs that the Go library cannot handle.
func extractWithPdftotext(ctx context.Context, filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, eris.Wrap(err, "pdftotext not available")
	}

	numPages := pdfinfoPageCount(ctx, filePath)
	if numPages == 0 {
		numPages = 1
	}

	// Extract each page separately to preserve page boundaries
	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", "-f", pageStr, "-l", pageStr, filePath, "-").Output()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		pages = append(pages, collapseLayoutSpacing(string(out)))
	}

	if totalTextLen(pages) == 0 {
		return nil, eris.New("pdftotext produced no output")
	}
	return pages, nil
}

// pdfinfoPageCount returns the number of pages in a PDF using pdfinfo, or 0.
func pdfinfoPageCount(ctx context.Context, filePath string) int {
	out, err := exec.CommandContext(ctx, "pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

// collapseLayoutSpacing trims each line of pdftotext -layout output; the
// parser splits on whitespace so column padding carries no meaning.
func collapseLayoutSpacing(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// extractWithLibrary uses the ledongthuc/pdf library.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, eris.Wrap(openErr, "open PDF")
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, eris.New("PDF has no pages")
	}

	// Method 1: GetTextByRow (best layout preservation)
	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	// Method 2: Page.Content() with coordinate-based row reconstruction
	return extractByContent(r, numPages), nil
}

// extractByRow uses GetTextByRow, best for well-structured PDFs.
// Blank or unreadable pages are kept as "" so page numbers stay aligned.
func extractByRow(r *pdf.Reader, numPages int) []string {
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			pages = append(pages, "")
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent reads the raw text objects of each page.
// Groups text pieces by Y coordinate to reconstruct rows, then sorts by X.
func extractByContent(r *pdf.Reader, numPages int) []string {
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content := page.Content()

		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if t.S == "" {
				continue
			}
			// Round Y to nearest integer to group into rows
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, w: t.W, size: t.FontSize, s: t.S})
		}

		// PDF Y goes bottom-to-top
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			line := joinRow(rowMap[y])
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

// textItem is one positioned text run on a page.
type textItem struct {
	x, w float64
	size float64
	s    string
}

// end is the right edge of the run. Streams that carry no width get half
// an em per rune.
func (t textItem) end() float64 {
	if t.w > 0 {
		return t.x + t.w
	}
	return t.x + float64(utf8.RuneCountInString(t.s))*fontSize(t.size)/2
}

// wordGapRatio is the share of the font size a horizontal gap must exceed
// to count as a space. Runs emitted one glyph at a time sit closer than this.
const wordGapRatio = 0.25

// joinRow orders the runs of one row by X and joins them, inserting a
// space where the gap between runs is wider than a fraction of a glyph.
// Space runs from the content stream are kept.
func joinRow(items []textItem) string {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].x < items[b].x
	})

	var b strings.Builder
	var prevEnd float64
	var lastSpace bool
	for j, item := range items {
		if strings.TrimSpace(item.s) == "" {
			if j > 0 && !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			prevEnd = item.end()
			continue
		}
		if j > 0 && !lastSpace && item.x-prevEnd > gapThreshold(item.size) {
			b.WriteByte(' ')
		}
		b.WriteString(item.s)
		lastSpace = strings.HasSuffix(item.s, " ")
		prevEnd = item.end()
	}
	return strings.TrimSpace(b.String())
}

func gapThreshold(size float64) float64 {
	return fontSize(size) * wordGapRatio
}

func fontSize(size float64) float64 {
	if size <= 0 {
		// no font size in the stream; assume a 10pt body font
		return 10
	}
	return size
}
