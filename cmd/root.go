// Package cmd implements the receivables command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/receivables-extractor/internal/config"
	"github.com/insightdelivered/receivables-extractor/internal/logging"
)

var (
	cfgFile string
	verbose bool

	// set by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "receivables",
	Short: "Extract open títulos from 'títulos a receber' report PDFs",
	Long: `receivables reads the "títulos a receber" (accounts receivable) report
exported by the store system and turns every open título into a row:
client, title, invoice, location, due date and the four amounts.

Pairs of lines that look like a título but cannot be read are reported as
diagnostics with their page and line, never silently dropped.

Example Usage:
  receivables convert relatorio.pdf
  receivables convert --format xlsx --output titulos.xlsx relatorio.pdf
  receivables convert --client "MARIA OLIVEIRA" --due-from 01/06/2025 *.pdf
  receivables serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Log.Format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "Path to the configuration file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
