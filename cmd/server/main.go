package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/addresses/internal/config"
	"github.com/JonMunkholm/addresses/internal/core"
	"github.com/JonMunkholm/addresses/internal/database"
	"github.com/JonMunkholm/addresses/internal/logging"
	"github.com/JonMunkholm/addresses/internal/metrics"
	"github.com/JonMunkholm/addresses/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	opts, err := core.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	importer := core.NewImporter(pool, opts, m)
	limiter := core.NewImportLimiter()

	// Cancelled on shutdown so a running import stops and records failure.
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	server := web.NewServer(web.Deps{
		Searcher:   core.NewSearcher(pool),
		State:      core.NewStateStore(pool),
		DB:         pool,
		Runner:     importer,
		Limiter:    limiter,
		Metrics:    m.Handler(),
		JobContext: jobCtx,
	}, cfg.Server)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Import.RunOnStart {
		g.Go(func() error {
			core.StartImportScheduler(jobCtx, importer, limiter, cfg.Import.CheckInterval)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if limiter.Active() {
			slog.Info("waiting for import to stop")
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("import did not stop in time", "error", err)
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
