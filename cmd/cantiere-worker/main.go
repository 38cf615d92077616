package main

import (
	"context"
	"errors"
	"os"
	"time"

	"cantiere/internal/amqp"
	"cantiere/internal/cli"
	"cantiere/internal/export"
	gsheet "cantiere/internal/export/google"
	mem "cantiere/internal/export/memory"
	"cantiere/internal/log"
	"cantiere/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting cantiere-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	store := cli.InitLedger(logger, cfg.SQLiteDBPath)
	defer store.Close()

	// Without a spreadsheet the worker still runs against an in-memory
	// mirror, which keeps local development free of Google credentials.
	var writer export.SnapshotWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets mirror initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		writer = mem.New()
		logger.Info("Google Sheets disabled - mirroring to memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(store, writer, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Export once at startup to cover events missed while the worker was
	// down.
	if err := exportWorker.Export(ctx); err != nil {
		logger.Error("Startup export failed", log.FieldError, err)
		// Keep running; the periodic export will retry.
	}

	if err := exportWorker.Run(ctx, amqpClient, cfg.ExportInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
