package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/aggregation"
	"github.com/cwihealth/cwi-server/internal/database"
	"github.com/cwihealth/cwi-server/internal/timer"
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

	logger.Info("starting aggregation service")

	db, err := database.Connect(cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	scheduler := timer.NewScheduler(2)
	defer scheduler.Stop()

	rollup := aggregation.NewDailyRollup(db, logger)
	scheduleDailyRollup(scheduler, rollup, cfg.Aggregation.DailyTime, logger)

	logger.Info("aggregation service running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
}

func scheduleDailyRollup(scheduler *timer.Scheduler, rollup *aggregation.DailyRollup, timeOfDay string, logger *zap.Logger) {
	const taskID = "daily-rollup"

	var scheduleNext func()
	scheduleNext = func() {
		nextRun, err := rollup.CalculateNextRunTime(timeOfDay)
		if err != nil {
			logger.Error("invalid daily rollup time", zap.String("time", timeOfDay), zap.Error(err))
			return
		}
		logger.Info("next daily rollup scheduled", zap.Time("at", nextRun))

		scheduler.Schedule(taskID, nextRun, func() {
			if err := rollup.AggregatePreviousDay(context.Background()); err != nil {
				logger.Error("daily rollup failed", zap.Error(err))
			}
			scheduleNext()
		})
	}

	scheduleNext()
}
