package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/receivables-extractor/internal/config"
	"github.com/insightdelivered/receivables-extractor/internal/extractor"
	"github.com/insightdelivered/receivables-extractor/internal/filter"
	"github.com/insightdelivered/receivables-extractor/internal/format"
	"github.com/insightdelivered/receivables-extractor/internal/models"
	"github.com/insightdelivered/receivables-extractor/internal/parser"
	"github.com/insightdelivered/receivables-extractor/internal/writer"
)

type convertOptions struct {
	output string
	format string
	header bool
	filter filter.Input
}

var convertOpts convertOptions

var convertCmd = &cobra.Command{
	Use:   "convert <report.pdf|report.txt> [more ...]",
	Short: "Convert report PDFs (or extracted text) to CSV, XLSX or JSON",
	Long: `Convert one or more "títulos a receber" reports.

PDFs are decoded on this machine; any other file is read as text that was
already extracted, with pages separated by a ---PAGE_BREAK--- line.

Each report is written next to its input (report.pdf -> report.csv) unless
--output is given. --output - writes to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := convertOpts
		if !cmd.Flags().Changed("format") {
			opts.format = cfg.Export.Format
		}
		if !cmd.Flags().Changed("header") {
			opts.header = cfg.Export.IncludeHeader
		}
		return runConvert(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertOpts.output, "output", "o", "", "Output path (single input only; '-' for stdout)")
	f.StringVarP(&convertOpts.format, "format", "f", "csv", "Output format: csv, xlsx or json")
	f.BoolVar(&convertOpts.header, "header", true, "Include metadata rows in CSV output")
	f.StringVar(&convertOpts.filter.Client, "client", "", "Only títulos of this client")
	f.StringVar(&convertOpts.filter.Title, "title", "", "Only this título")
	f.StringVar(&convertOpts.filter.DueFrom, "due-from", "", "Earliest due date (dd/mm/yyyy)")
	f.StringVar(&convertOpts.filter.DueTo, "due-to", "", "Latest due date (dd/mm/yyyy)")
	f.StringVar(&convertOpts.filter.MinTotal, "min-total", "", "Minimum R$ Total (1.500,00 or 1500.00)")
	f.StringVar(&convertOpts.filter.MaxTotal, "max-total", "", "Maximum R$ Total")
	rootCmd.AddCommand(convertCmd)
}

// fileReport is the outcome of one input file.
type fileReport struct {
	input  string
	output string
	result *models.ParseResult
	err    error
}

func runConvert(ctx context.Context, stdout, stderr io.Writer, inputs []string, opts convertOptions) error {
	opts.format = strings.ToLower(opts.format)
	if !config.ValidFormat(opts.format) {
		return eris.Errorf("unknown format %q (use csv, xlsx or json)", opts.format)
	}
	if opts.output != "" && len(inputs) > 1 {
		return eris.New("--output can only be used with a single input file")
	}
	criteria, err := filter.Parse(opts.filter)
	if err != nil {
		return eris.Wrap(err, "invalid filter")
	}

	p, err := parser.New(cfg.Layout, logger)
	if err != nil {
		return err
	}

	reports := make([]fileReport, len(inputs))
	var g errgroup.Group
	g.SetLimit(cfg.Concurrency)
	for i, input := range inputs {
		g.Go(func() error {
			reports[i] = convertFile(ctx, p, input, opts, criteria, stdout)
			// failures are reported per file below
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range reports {
		if r.err != nil {
			failed++
			fmt.Fprintf(stderr, "Error processing %s: %v\n", r.input, r.err)
			continue
		}
		printSummary(stderr, r, p.LayoutName())
	}
	if failed > 0 {
		return eris.Errorf("%d of %d file(s) failed", failed, len(inputs))
	}
	return nil
}

func convertFile(ctx context.Context, p parser.Parser, input string, opts convertOptions, criteria filter.Criteria, stdout io.Writer) fileReport {
	report := fileReport{input: input}
	log := logger.With(zap.String("input", input))

	src, err := extractor.FileSource(input)
	if err != nil {
		report.err = err
		return report
	}
	result, err := parser.ParseSource(ctx, src, p)
	if err != nil {
		report.err = err
		return report
	}
	result.Records = filter.Apply(result.Records, criteria)
	report.result = result

	report.output = opts.output
	if report.output == "" {
		report.output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}

	if report.output == "-" {
		err = writeResult(stdout, result, input, opts)
	} else {
		err = writeFile(report.output, func(w io.Writer) error {
			return writeResult(w, result, input, opts)
		})
	}
	if err != nil {
		report.err = err
		return report
	}
	log.Debug("written", zap.String("output", report.output), zap.Int("records", len(result.Records)))
	return report
}

// writeFile creates path and hands it to write. The close error is
// returned since it is where a failed flush shows up.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "close %s", path)
		}
	}()
	return write(f)
}

// jsonExport is the --format json document.
type jsonExport struct {
	Source  string                  `json:"source"`
	Total   string                  `json:"total"`
	Records []models.TitleRecord    `json:"records"`
	Skipped []models.SkipDiagnostic `json:"skipped"`
}

func writeResult(out io.Writer, result *models.ParseResult, source string, opts convertOptions) error {
	switch opts.format {
	case "xlsx":
		return (&writer.XLSXWriter{}).Write(out, result)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(jsonExport{
			Source:  source,
			Total:   format.BRL(format.Total(result.Records)),
			Records: result.Records,
			Skipped: result.Skipped,
		}), "encode JSON")
	default:
		return (&writer.CSVWriter{IncludeHeader: opts.header}).Write(out, result, source)
	}
}

type clientTotal struct {
	name  string
	count int
	total decimal.Decimal
}

// clientTotals groups records per client in order of first appearance.
func clientTotals(records []models.TitleRecord) []clientTotal {
	var out []clientTotal
	index := make(map[string]int)
	for _, rec := range records {
		i, ok := index[rec.Client]
		if !ok {
			i = len(out)
			index[rec.Client] = i
			out = append(out, clientTotal{name: rec.Client})
		}
		out[i].count++
		out[i].total = out[i].total.Add(rec.Total)
	}
	return out
}

func printSummary(w io.Writer, r fileReport, layout string) {
	fmt.Fprintf(w, "Processing: %s\n", r.input)
	fmt.Fprintf(w, "  Layout: %s, %d page(s), %d line(s)\n", layout, r.result.Pages, r.result.Lines)
	fmt.Fprintf(w, "  Found %d título(s), total R$ %s\n", len(r.result.Records), format.BRL(format.Total(r.result.Records)))
	for _, c := range clientTotals(r.result.Records) {
		fmt.Fprintf(w, "    %s: %d título(s), R$ %s\n", format.DisplayClient(c.name), c.count, format.BRL(c.total))
	}
	if n := len(r.result.Skipped); n > 0 {
		fmt.Fprintf(w, "  Skipped %d candidate pair(s):\n", n)
		for _, d := range r.result.Skipped {
			fmt.Fprintf(w, "    page %d line %d: %s\n", d.Page, d.Line, d.Reason)
		}
	}
	if len(r.result.Records) == 0 {
		fmt.Fprintln(w, "  Warning: No títulos found. The document may not be a títulos a receber report.")
	}
	if r.output != "-" {
		fmt.Fprintf(w, "  Output: %s\n", r.output)
	}
}
