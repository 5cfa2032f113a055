package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"profesorhub/internal/amqp"
	"profesorhub/internal/backend"
	"profesorhub/internal/config"
	"profesorhub/internal/export"
	gsheet "profesorhub/internal/export/google"
	applog "profesorhub/internal/log"
	"profesorhub/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	applog.Setup()
	logger := applog.ForComponent(applog.ComponentWorker)
	logger.Info("Starting backup-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}

	st, err := backend.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Google Sheets summary export is optional.
	var exporter export.SummaryWriter
	if cfg.SheetsExportEnabled() {
		client, err := gsheet.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	w := worker.NewBackupWorker(st, cfg.BackupDir, exporter)
	logger.Info("Consuming backup requests",
		"queue", cfg.AMQPQueue,
		"backup_dir", cfg.BackupDir,
		"interval", cfg.BackupInterval.String())

	if err := w.Run(ctx, amqpClient, cfg.BackupInterval); err != nil && ctx.Err() == nil {
		logger.Error("Worker error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
