// Command importer runs one address registry import and exits.
// The exit status is 1 when the run fails.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/addresses/internal/config"
	"github.com/JonMunkholm/addresses/internal/core"
	"github.com/JonMunkholm/addresses/internal/database"
	"github.com/JonMunkholm/addresses/internal/logging"
	"github.com/JonMunkholm/addresses/internal/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cfg)
	if err != nil {
		slog.Error("import failed", "error", err, "code", core.MapError(err).Code)
		stop()
		os.Exit(1)
	}

	slog.Info("import finished",
		"run_id", res.RunID,
		"month", res.Month,
		"skipped", res.Skipped,
		"skip_reason", res.SkipReason,
		"processed", res.Processed,
		"inserted", res.Inserted,
		"skipped_rows", res.SkippedRows,
		"duration_ms", res.Duration.Milliseconds(),
	)
}

func run(ctx context.Context, cfg *config.Config) (*core.Result, error) {
	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	opts, err := core.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return core.NewImporter(pool, opts, metrics.New()).Run(ctx)
}
