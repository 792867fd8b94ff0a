package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneymanagement/internal/amqp"
	"moneymanagement/internal/backend"
	"moneymanagement/internal/config"
	applog "moneymanagement/internal/log"
	"moneymanagement/internal/storage"
	"moneymanagement/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting sync worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Select the mirror backend from configuration.
	mirrorCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid mirror configuration", "error", err)
		os.Exit(1)
	}
	if err := mirrorCfg.Validate(); err != nil {
		logger.Error("Mirror configuration validation failed", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	mirror, err := factory.CreateMirror(ctx, mirrorCfg)
	if err != nil {
		logger.Error("Failed to create mirror backend", "error", err, "type", mirrorCfg.Type)
		os.Exit(1)
	}
	if mirror.Cleanup != nil {
		defer mirror.Cleanup()
	}
	logger.Info("Mirror backend selected", "type", mirrorCfg.Type)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, mirror.Mirror, mirror.Mirror)

	logger.Info("Consuming sync messages", "queue", cfg.AMQPQueue)
	err = amqpClient.ConsumeSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
		return syncWorker.HandleMessage(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Sync worker stopped gracefully")
}
