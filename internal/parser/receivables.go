package parser

import (
	"errors"

	"go.uber.org/zap"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// ReceivablesParser handles "títulos a receber" report text.
//
// The report lists clients, each followed by its open títulos. Every título
// spans two lines:
//
//	1234 - MARIA OLIVEIRA
//	T001 JOAO SOARES 5521 Loja01 DIN 150,00
//	Aberto 15/06/2025 CC123 10,00 0,00 160,00
//
// Pages are scanned in order as one pass; the client in context carries
// over page breaks.
type ReceivablesParser struct {
	Layout models.Layout
	Logger *zap.Logger
	// Debug records a DebugLine for every input line.
	Debug bool
}

func (p *ReceivablesParser) LayoutName() string {
	return "Títulos a Receber"
}

// Parse folds the pages into a ParseResult. It never fails: pairs that cannot
// be converted become SkipDiagnostics.
func (p *ReceivablesParser) Parse(pages []models.Page) *models.ParseResult {
	layout := p.layout()
	log := p.logger()
	result := models.NewParseResult()
	result.Pages = len(pages)

	var client ClientContext
	for _, page := range pages {
		lines := page.Lines
		result.Lines += len(lines)

		for i := 0; i < len(lines); i++ {
			l1 := normalizeLine(lines[i])
			raw := models.RawLine{Page: page.Number, Line: i + 1, Text: l1}

			if next, ok := client.Observe(layout, l1); ok {
				client = next
				p.trace(result, raw, "header", client)
				continue
			}

			if i+1 >= len(lines) {
				p.trace(result, raw, "noise", client)
				continue
			}
			l2 := normalizeLine(lines[i+1])
			if !IsCandidatePair(layout, l1, l2, client) {
				p.trace(result, raw, "noise", client)
				continue
			}

			rec, err := p.convertPair(client, raw, l2)
			if err != nil {
				diag := diagnose(raw, l2, err)
				result.Skip(diag)
				p.trace(result, raw, "skipped", client)
				log.Debug("skipped line pair",
					zap.Int("page", diag.Page),
					zap.Int("line", diag.Line),
					zap.String("reason", string(diag.Reason)),
					zap.Error(err),
				)
				continue
			}
			result.Add(rec)
			p.trace(result, raw, "record", client)
		}
	}

	log.Debug("parsed document",
		zap.Int("pages", result.Pages),
		zap.Int("lines", result.Lines),
		zap.Int("records", len(result.Records)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result
}

func (p *ReceivablesParser) convertPair(client ClientContext, raw models.RawLine, l2 string) (models.TitleRecord, error) {
	fields, err := ExtractPair(raw.Text, l2)
	if err != nil {
		return models.TitleRecord{}, err
	}
	return BuildRecord(client, fields, raw)
}

// BuildRecord assembles a record from an extracted field set under the
// client in context.
func BuildRecord(client ClientContext, f TitleFields, raw models.RawLine) (models.TitleRecord, error) {
	if !client.IsSet() {
		return models.TitleRecord{}, pairErr(models.ReasonMissingClient, ErrNoClientContext, "")
	}
	return models.TitleRecord{
		Client:      client.Name,
		Status:      f.Status,
		Title:       f.Title,
		Name:        f.Name,
		Invoice:     f.Invoice,
		Location:    f.Location,
		PaymentType: f.PaymentType,
		DueDate:     f.DueDate,
		Account:     f.Account,
		AddDisc:     f.AddDisc,
		Interest:    f.Interest,
		Original:    f.Original,
		Total:       f.Total,
		Page:        raw.Page,
		Line:        raw.Line,
	}, nil
}

// diagnose turns a pair failure into a SkipDiagnostic.
func diagnose(raw models.RawLine, l2 string, err error) models.SkipDiagnostic {
	reason := models.ReasonMalformedPair
	var pe *PairError
	if errors.As(err, &pe) {
		reason = pe.Reason
	}
	return models.SkipDiagnostic{
		Page:    raw.Page,
		Line:    raw.Line,
		Content: raw.Text + " | " + l2,
		Reason:  reason,
		Detail:  err.Error(),
	}
}

const maxDebugRunes = 120

func (p *ReceivablesParser) trace(result *models.ParseResult, raw models.RawLine, outcome string, client ClientContext) {
	if !p.Debug {
		return
	}
	text := raw.Text
	// Truncate long lines for debug display, on a rune boundary
	if runes := []rune(text); len(runes) > maxDebugRunes {
		text = string(runes[:maxDebugRunes]) + "..."
	}
	result.DebugLines = append(result.DebugLines, models.DebugLine{
		Page:   raw.Page,
		Line:   raw.Line,
		Text:   text,
		Result: outcome,
		Client: client.Name,
	})
}

func (p *ReceivablesParser) layout() models.Layout {
	if p.Layout.StatusKeyword == "" && len(p.Layout.Markers) == 0 && p.Layout.HeaderSeparator == "" {
		return models.DefaultLayout()
	}
	return p.Layout
}

func (p *ReceivablesParser) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
