package writer

import (
	"bytes"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// Sheet names of the XLSX export.
const (
	TitlesSheet      = "Titulos"
	DiagnosticsSheet = "Diagnostics"
)

var diagnosticColumns = []string{"Página", "Linha", "Motivo", "Detalhe", "Conteúdo"}

// XLSXWriter writes títulos to an Excel workbook: one sheet of records with
// numeric amount cells and one sheet of skip diagnostics.
type XLSXWriter struct{}

// WriteToBuffer builds the workbook in memory.
func (w *XLSXWriter) WriteToBuffer(result *models.ParseResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet so the workbook opens on the records
	if err := f.SetSheetName("Sheet1", TitlesSheet); err != nil {
		return nil, eris.Wrap(err, "rename sheet")
	}
	if _, err := f.NewSheet(DiagnosticsSheet); err != nil {
		return nil, eris.Wrap(err, "create diagnostics sheet")
	}

	if err := writeRow(f, TitlesSheet, 1, toAny(Columns)); err != nil {
		return nil, err
	}
	for i, rec := range result.Records {
		row := toAny(textCells(rec))
		for _, a := range amounts(rec) {
			v, _ := a.Round(2).Float64()
			row = append(row, v)
		}
		if err := writeRow(f, TitlesSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, DiagnosticsSheet, 1, toAny(diagnosticColumns)); err != nil {
		return nil, err
	}
	for i, d := range result.Skipped {
		row := []any{d.Page, d.Line, string(d.Reason), d.Detail, d.Content}
		if err := writeRow(f, DiagnosticsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if len(result.Records) > 0 {
		last := "M" + strconv.Itoa(len(result.Records)+1)
		style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
		if err != nil {
			return nil, eris.Wrap(err, "create amount style")
		}
		if err := f.SetCellStyle(TitlesSheet, "J2", last, style); err != nil {
			return nil, eris.Wrap(err, "style amounts")
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(TitlesSheet, "A", "A", 32) // client
	_ = f.SetColWidth(TitlesSheet, "D", "D", 28) // name
	_ = f.SetColWidth(TitlesSheet, "H", "I", 14) // due date, account
	_ = f.SetColWidth(TitlesSheet, "J", "M", 14) // amounts
	_ = f.SetColWidth(DiagnosticsSheet, "C", "C", 24)
	_ = f.SetColWidth(DiagnosticsSheet, "E", "E", 100)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, eris.Wrap(err, "xlsx write")
	}
	return buf, nil
}

// Write streams the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, result *models.ParseResult) error {
	buf, err := w.WriteToBuffer(result)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(out)
	return eris.Wrap(err, "write workbook")
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return eris.Wrap(err, "cell name")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return eris.Wrapf(err, "write %s row %d", sheet, row)
	}
	return nil
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
