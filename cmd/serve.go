package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/receivables-extractor/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and upload page",
	Long: `Start the HTTP API on the configured address.

Endpoints:
  GET  /api/health
  POST /api/convert   multipart: file (PDF) or extractedText, format, filters`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		app := api.NewApp(cfg, logger, Version)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("serving", zap.String("addr", addr), zap.String("static_dir", cfg.Server.StaticDir))
			errCh <- app.Listen(addr)
		}()

		select {
		case err := <-errCh:
			return eris.Wrapf(err, "listen on %s", addr)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return eris.Wrap(app.ShutdownWithContext(shutdownCtx), "shutdown")
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config and RECEIVABLES_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
