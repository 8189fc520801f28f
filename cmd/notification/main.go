package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/notification"
	"github.com/cwihealth/cwi-server/internal/protocol"
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

	logger.Info("starting notification service")

	consumer := queue.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicAlerts, "cwi-notification")
	defer consumer.Close()

	notifier := notification.NewEmailNotifier(&cfg.SMTP, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			msg, err := consumer.Consume(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("consumer error", zap.Error(err))
				continue
			}

			alert, err := protocol.DecodeAlertMessage(msg.Value)
			if err != nil {
				logger.Error("failed to decode alert message", zap.Error(err))
				consumer.Commit(ctx, msg)
				continue
			}

			if err := notifier.SendAlert(alert); err != nil {
				logger.Error("failed to send alert email",
					zap.String("event_id", alert.EventID),
					zap.Error(err),
				)
			}

			if err := consumer.Commit(ctx, msg); err != nil {
				logger.Warn("failed to commit offset", zap.Error(err))
			}
		}
	}()

	logger.Info("notification service running", zap.String("topic", cfg.Kafka.TopicAlerts))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
}
