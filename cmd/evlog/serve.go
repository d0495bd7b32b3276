package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/evlog/internal/archive"
	"github.com/groblegark/evlog/internal/config"
	"github.com/groblegark/evlog/internal/events"
	"github.com/groblegark/evlog/internal/mirror"
	"github.com/groblegark/evlog/internal/server"
	"github.com/groblegark/evlog/internal/startup"
	"github.com/groblegark/evlog/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the evlog HTTP server",
	// Override PersistentPreRunE so we don't construct an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Open the Postgres pool. No ping here: the database may still be
		// coming up, and the startup runner retries schema setup below.
		store, err := postgres.New(cfg.DSN(), postgres.PoolConfig{
			Size:     cfg.PoolSize,
			Overflow: cfg.PoolOverflow,
		})
		if err != nil {
			return err
		}

		// Search mirror, best-effort.
		var m mirror.Mirror
		if cfg.ElasticURL != "" {
			es, err := mirror.NewElastic(cfg.ElasticURL, cfg.ElasticIndex)
			if err != nil {
				logger.Error("failed to create search mirror, continuing without", "err", err)
				m = &mirror.Noop{}
			} else {
				m = es
				logger.Info("search mirror enabled", "url", cfg.ElasticURL, "index", cfg.ElasticIndex)
			}
		} else {
			m = &mirror.Noop{}
			logger.Info("search mirror disabled (EVLOG_ELASTIC_URL not set)")
		}

		// Event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (EVLOG_NATS_URL not set)")
		}

		// Schema setup runs in the background with bounded retries so the
		// server can bind its port immediately; /ready gates on the outcome.
		runner := startup.NewRunner(func(ctx context.Context) error {
			if err := store.InitSchema(ctx); err != nil {
				return err
			}
			if m.Enabled() {
				if err := m.EnsureIndex(ctx); err != nil {
					logger.Warn("failed to ensure search index, mirror writes may fail", "err", err)
				}
			}
			return nil
		}, logger)
		runner.Start()

		srv := server.New(store, m, publisher, runner, cfg, logger)
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: srv.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr, "instance", cfg.Instance)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the archive scheduler if a destination is configured.
		var scheduler *archive.Scheduler
		if cfg.ArchiveInterval > 0 && cfg.ArchiveS3Bucket != "" {
			s3Dest, err := archive.NewS3Destination(
				context.Background(),
				cfg.ArchiveS3Bucket,
				cfg.ArchiveS3Key,
				cfg.ArchiveS3Region,
				cfg.ArchiveS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 archive destination", "err", err)
			} else {
				scheduler = archive.NewScheduler(store, []archive.Destination{s3Dest}, cfg.ArchiveInterval, logger)
				scheduler.Start()
				logger.Info("archive scheduler started", "interval", cfg.ArchiveInterval, "bucket", cfg.ArchiveS3Bucket)
			}
		}

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		runner.Stop()

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("archive scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
