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

	"github.com/JonMunkholm/krotoncheck/internal/config"
	"github.com/JonMunkholm/krotoncheck/internal/core"
	_ "github.com/JonMunkholm/krotoncheck/internal/core/checks" // Register all checks
	"github.com/JonMunkholm/krotoncheck/internal/ingest"
	"github.com/JonMunkholm/krotoncheck/internal/logging"
	"github.com/JonMunkholm/krotoncheck/internal/report"
	"github.com/JonMunkholm/krotoncheck/internal/season"
	"github.com/JonMunkholm/krotoncheck/internal/service"
	"github.com/JonMunkholm/krotoncheck/internal/store"
	"github.com/JonMunkholm/krotoncheck/internal/web"
)

func main() {
	// Overload lets .env win over the inherited environment
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

	loc, err := cfg.Check.Location()
	if err != nil {
		slog.Error("failed to load time zone", "error", err)
		os.Exit(1)
	}
	core.Location = loc
	service.CheckTimeout = cfg.Check.Timeout

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"seasons_dir", cfg.Data.SeasonsDir,
		"check_max_concurrent", cfg.Check.MaxConcurrent,
		"scheduler_enabled", cfg.Scheduler.Enabled,
	)

	ctx := context.Background()
	st, err := store.Open(ctx, store.Options{
		Driver:          cfg.Database.Driver,
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		slog.Error("failed to open report store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	catalog := &season.Catalog{Dir: cfg.Data.SeasonsDir, DataRoot: cfg.Data.Root}
	if seasons, err := catalog.List(); err != nil {
		slog.Warn("failed to read seasons", "error", err)
	} else {
		slog.Info("seasons configured", "count", len(seasons))
	}
	slog.Info("checks registered", "count", core.CheckCount(), "names", core.Names())

	svc := service.New(catalog, st, service.Config{
		Ingest: ingest.Options{
			Encoding: cfg.Data.Encoding,
			Cache:    cfg.Data.Cache,
		},
		Report: report.Options{
			BaseURL:    cfg.Check.BaseURL,
			ContactURL: cfg.Check.ContactURL,
		},
		MaxConcurrent: cfg.Check.MaxConcurrent,
		MaxWait:       cfg.Check.MaxWaitTime,
	})

	server := web.NewServer(svc, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	if cfg.Scheduler.Enabled {
		go svc.StartScheduler(jobCtx, cfg.Scheduler.Interval)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := svc.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for checks to complete", "active", status.Active)
			if err := svc.WaitForChecks(shutdownCtx); err != nil {
				slog.Warn("checks did not complete in time", "error", err)
			} else {
				slog.Info("all checks completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(jobCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
