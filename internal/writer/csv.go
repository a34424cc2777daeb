package writer

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// Columns is the export column order, named as in the report.
var Columns = []string{
	"Cliente", "Status", "Título", "Nome", "Fatura", "Local", "Espécie",
	"Vencimento", "Conta Corrente", "Acres/Desc", "Juros/Multa", "R$ Original", "R$ Total",
}

// textCells are the leading string columns of a record; the four amounts follow.
func textCells(r models.TitleRecord) []string {
	return []string{
		r.Client, r.Status, r.Title, r.Name, r.Invoice, r.Location, r.PaymentType,
		r.DueDate, r.Account,
	}
}

func amounts(r models.TitleRecord) []decimal.Decimal {
	return []decimal.Decimal{r.AddDisc, r.Interest, r.Original, r.Total}
}

// CSVWriter writes títulos to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// Write writes the records in CSV format to the given writer. Amounts use
// the canonical form with two decimals ("1500.00").
func (w *CSVWriter) Write(out io.Writer, result *models.ParseResult, source string) error {
	cw := csv.NewWriter(out)

	// Metadata as comment rows
	if w.IncludeHeader {
		meta := [][]string{
			{"# Source", source},
			{"# Records", strconv.Itoa(len(result.Records))},
			{"# Skipped", strconv.Itoa(len(result.Skipped))},
		}
		if source == "" {
			meta = meta[1:]
		}
		if err := cw.WriteAll(meta); err != nil {
			return eris.Wrap(err, "failed to write CSV metadata")
		}
	}

	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "failed to write CSV header")
	}

	for _, rec := range result.Records {
		row := textCells(rec)
		for _, a := range amounts(rec) {
			row = append(row, a.StringFixed(2))
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "failed to write CSV row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "flush CSV")
}
