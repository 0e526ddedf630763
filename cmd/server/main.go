// Package main provides the entry point for the TDV tracker server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tdv-tracker/internal/config"
	"github.com/yourusername/tdv-tracker/internal/health"
	"github.com/yourusername/tdv-tracker/internal/logger"
	"github.com/yourusername/tdv-tracker/internal/metrics"
	"github.com/yourusername/tdv-tracker/internal/notify"
	"github.com/yourusername/tdv-tracker/internal/scheduler"
	"github.com/yourusername/tdv-tracker/internal/server"
	"github.com/yourusername/tdv-tracker/internal/stats"
	"github.com/yourusername/tdv-tracker/internal/storage"
	"github.com/yourusername/tdv-tracker/internal/tracker"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("TDV_TRACKER_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"backend":     cfg.Storage.Backend,
		"version":     version,
	}).Info("TDV tracker starting")

	if cfg.Admin.Password == "" {
		appLog.Warn("No admin password configured, every mutation will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage backend
	store, err := storage.New(ctx, &cfg.Storage, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize storage backend")
	}
	defer func() {
		if err := store.Close(); err != nil {
			appLog.WithError(err).Error("Failed to close storage backend")
		}
	}()

	appLog.WithField("backend", cfg.Storage.Backend).Info("Storage backend initialized")

	// Initialize metrics
	metrics.InitRegistry()

	// Initialize the tracker service and its subscribers
	tokens := tracker.NewTokenIssuer(cfg.TokenTTL())
	svc := tracker.NewService(store, cfg.Admin.Password, tokens, appLog)
	svc.Subscribe(metrics.ProgressSubscriber{})
	svc.Subscribe(logger.NewChangeLogger(appLog))

	hub := server.NewHub(appLog)
	defer hub.Close()
	svc.Subscribe(hub)

	if hook := notify.NewWebhook(cfg.Notify.WebhookURL, cfg.NotifyTimeout(), appLog); hook != nil {
		svc.Subscribe(hook)
		appLog.WithField("url", cfg.Notify.WebhookURL).Info("Webhook notifier enabled")
	}

	// Prime the gauges before the first scrape
	metrics.UpdateProgress(stats.Summarize(svc.FetchRecord(ctx), time.Now()))

	// Start the periodic metrics refresh
	if cfg.Metrics.Enabled {
		sched := scheduler.NewScheduler(svc, appLog)
		if err := sched.ScheduleMetricsRefresh(cfg.Metrics.RefreshSchedule); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule metrics refresh")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		defer sched.Stop()
	}

	// Start the health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Logger:      appLog,
		Store:       store,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	// Run the HTTP server until shutdown
	httpServer := server.New(svc, cfg, appLog, hub)
	if err := httpServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("HTTP server failed")
	}

	appLog.Info("TDV tracker stopped")
}
