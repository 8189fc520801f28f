package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/database"
	"github.com/cwihealth/cwi-server/internal/queue"
	"github.com/cwihealth/cwi-server/pkg/config"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Info("starting alert writer")

	db, err := database.Connect(cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	consumer := queue.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicAlerts, cfg.Kafka.ConsumerGroup)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writer := queue.NewAlertWriter(consumer, db, logger,
		cfg.Aggregation.BatchSize, cfg.Aggregation.FlushWait)
	writer.Start(ctx)

	logger.Info("alert writer running",
		zap.String("topic", cfg.Kafka.TopicAlerts),
		zap.String("group", cfg.Kafka.ConsumerGroup),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
	writer.Stop()
}
