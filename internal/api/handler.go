package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/insightdelivered/receivables-extractor/internal/config"
	"github.com/insightdelivered/receivables-extractor/internal/extractor"
	"github.com/insightdelivered/receivables-extractor/internal/filter"
	"github.com/insightdelivered/receivables-extractor/internal/format"
	"github.com/insightdelivered/receivables-extractor/internal/logging"
	"github.com/insightdelivered/receivables-extractor/internal/models"
	"github.com/insightdelivered/receivables-extractor/internal/parser"
	"github.com/insightdelivered/receivables-extractor/internal/writer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                    `json:"success"`
	Error        string                  `json:"error,omitempty"`
	Warning      string                  `json:"warning,omitempty"`
	RequestID    string                  `json:"requestId,omitempty"`
	Layout       string                  `json:"layout,omitempty"`
	Records      []models.TitleRecord    `json:"records"`
	Skipped      []models.SkipDiagnostic `json:"skipped"`
	Count        int                     `json:"count"`
	SkippedCount int                     `json:"skippedCount"`
	Total        string                  `json:"total"`
	Options      *filter.Options         `json:"options,omitempty"`
	CSV          string                  `json:"csv,omitempty"`
	RawText      string                  `json:"rawText,omitempty"`
	DebugLines   []models.DebugLine      `json:"debugLines,omitempty"`
	Version      string                  `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Layout  models.Layout
	Logger  *zap.Logger
	Version string
	// IncludeHeader is the CSV metadata default when the form omits "header".
	IncludeHeader bool
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleConvert parses an uploaded report. The form carries either a PDF in
// "file" or text already extracted by the browser in "extractedText"
// (pages separated by models.PageBreak); the text wins when both are sent.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	log := logging.OrNop(h.Logger).With(zap.String("request_id", reqID))

	extractedText := c.FormValue("extractedText")
	upload, fileErr := c.FormFile("file")
	if fileErr != nil && strings.TrimSpace(extractedText) == "" {
		return writeError(c, fiber.StatusBadRequest, reqID, "No file uploaded. Use form field 'file' or 'extractedText'.")
	}

	outFormat := strings.ToLower(c.FormValue("format", "json"))
	if !config.ValidFormat(outFormat) {
		return writeError(c, fiber.StatusBadRequest, reqID, fmt.Sprintf("Unknown format %q. Use json, csv or xlsx.", outFormat))
	}

	criteria, err := filter.Parse(filter.Input{
		Client:   c.FormValue("client"),
		Title:    c.FormValue("title"),
		DueFrom:  c.FormValue("dueFrom"),
		DueTo:    c.FormValue("dueTo"),
		MinTotal: c.FormValue("minTotal"),
		MaxTotal: c.FormValue("maxTotal"),
	})
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, reqID, fmt.Sprintf("Invalid filter: %v", err))
	}

	includeHeader := h.IncludeHeader
	if v := c.FormValue("header"); v != "" {
		includeHeader = v != "false"
	}

	var src extractor.LineSource
	sourceName := "extractedText"
	if fileErr == nil {
		sourceName = upload.Filename
	}

	if strings.TrimSpace(extractedText) != "" {
		src = extractor.TextSource{Name: sourceName, Text: extractedText}
	} else {
		if !strings.EqualFold(filepath.Ext(upload.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, reqID, "Only PDF files are supported.")
		}
		tmp, err := os.CreateTemp("", "receivables-*.pdf")
		if err != nil {
			log.Error("create temp file", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, reqID, "Failed to create temp file.")
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		if err := c.SaveFile(upload, tmp.Name()); err != nil {
			log.Error("save upload", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, reqID, "Failed to save uploaded file.")
		}
		src = extractor.PDFSource{Path: tmp.Name()}
	}

	pages, err := src.Pages(c.UserContext())
	if err != nil {
		var readErr *models.DocumentReadError
		if errors.As(err, &readErr) {
			log.Warn("document read failed", zap.String("source", sourceName), zap.Error(err))
			return writeError(c, fiber.StatusUnprocessableEntity, reqID, fmt.Sprintf("Could not read %s: %v", sourceName, readErr.Err))
		}
		return writeError(c, fiber.StatusInternalServerError, reqID, err.Error())
	}

	layout := h.layout()
	p := &parser.ReceivablesParser{
		Layout: layout,
		Logger: log,
		Debug:  c.FormValue("debug") == "true",
	}
	result := p.Parse(pages)
	// options describe the whole document, not the filtered view
	opts := filter.OptionsFor(result.Records, criteria.Client)
	result.Records = filter.Apply(result.Records, criteria)

	log.Info("converted",
		zap.String("source", sourceName),
		zap.Int("pages", result.Pages),
		zap.Int("records", len(result.Records)),
		zap.Int("skipped", len(result.Skipped)),
	)

	switch outFormat {
	case "csv":
		var buf bytes.Buffer
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		if err := w.Write(&buf, result, sourceName); err != nil {
			return writeError(c, fiber.StatusInternalServerError, reqID, fmt.Sprintf("CSV generation failed: %v", err))
		}
		c.Attachment(exportName(sourceName, ".csv"))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	case "xlsx":
		buf, err := (&writer.XLSXWriter{}).WriteToBuffer(result)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, reqID, fmt.Sprintf("XLSX generation failed: %v", err))
		}
		c.Attachment(exportName(sourceName, ".xlsx"))
		c.Set(fiber.HeaderContentType, xlsxContentType)
		return c.Send(buf.Bytes())
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := csvWriter.Write(&csvBuf, result, sourceName); err != nil {
		return writeError(c, fiber.StatusInternalServerError, reqID, fmt.Sprintf("CSV generation failed: %v", err))
	}

	resp := ConvertResponse{
		Success:      true,
		RequestID:    reqID,
		Layout:       p.LayoutName(),
		Records:      result.Records,
		Skipped:      result.Skipped,
		Count:        len(result.Records),
		SkippedCount: len(result.Skipped),
		Total:        format.BRL(format.Total(result.Records)),
		Options:      &opts,
		CSV:          csvBuf.String(),
		RawText:      rawText(pages),
		DebugLines:   result.DebugLines,
		Version:      h.Version,
	}
	if !parser.LooksLikeReport(pages, layout) {
		resp.Warning = "The document does not look like a títulos a receber report; no record lines were recognised."
	}
	return c.JSON(resp)
}

func (h *Handler) layout() models.Layout {
	if len(h.Layout.Markers) == 0 {
		return models.DefaultLayout()
	}
	return h.Layout
}

// rawText joins the page text back together; it helps debug parser issues.
func rawText(pages []models.Page) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strings.Join(p.Lines, "\n")
	}
	return strings.Join(parts, "\n--- PAGE BREAK ---\n")
}

func exportName(source, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." {
		base = "titulos"
	}
	return base + ext
}

func writeError(c *fiber.Ctx, status int, reqID, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:   false,
		Error:     msg,
		RequestID: reqID,
		Records:   []models.TitleRecord{},
		Skipped:   []models.SkipDiagnostic{},
	})
}
