// Command translate recursively discovers METAR CSV exports under a root
// directory and writes a structured JSON document beside each one.
//
// Usage:
//
//	translate [flags] ROOT
//
// Configuration comes from environment variables (see internal/config);
// flags override the corresponding variables for one-off runs.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/metar-translator/internal/adapter/csvdir"
	httpadapter "github.com/couchcryptid/metar-translator/internal/adapter/http"
	"github.com/couchcryptid/metar-translator/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/metar-translator/internal/adapter/kafka"
	"github.com/couchcryptid/metar-translator/internal/config"
	"github.com/couchcryptid/metar-translator/internal/observability"
	"github.com/couchcryptid/metar-translator/internal/pipeline"
)

func main() {
	var (
		workers int
		pattern string
		indent  int
	)

	root := &cobra.Command{
		Use:   "translate ROOT",
		Short: "Translate archived METAR CSV exports into structured JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("pattern") {
				cfg.CSVPattern = pattern
			}
			if cmd.Flags().Changed("indent") {
				cfg.JSONIndent = indent
			}

			return run(cmd.Context(), cfg, args[0])
		},
	}

	root.Flags().IntVar(&workers, "workers", 0, "concurrent files (default: WORKERS env or NumCPU)")
	root.Flags().StringVar(&pattern, "pattern", "", "input file glob (default: CSV_PATTERN env or *.csv)")
	root.Flags().IntVar(&indent, "indent", 0, "JSON indent spaces, 0 for compact (default: JSON_INDENT env or 2)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("translate failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, rootDir string) error {
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	writer := jsonfile.NewWriter(cfg.JSONIndent)

	// Kafka sink is feature-flagged; nil publisher disables it.
	var publisher pipeline.RecordPublisher
	if cfg.KafkaEnabled {
		kw := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := kw.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = kw
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(csvdir.Source{}, writer, publisher, logger, metrics, cfg.CSVPattern, cfg.Workers)

	// Optional observability endpoint for long archive runs.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	summary, err := p.Run(ctx, rootDir)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("http server shutdown error", "error", shutdownErr)
		}
	}

	logger.Info("batch finished",
		"files_processed", summary.FilesProcessed,
		"files_failed", summary.FilesFailed,
		"rows", summary.RowsProcessed,
	)
	return err
}
