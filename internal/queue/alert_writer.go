package queue

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/database"
	"github.com/cwihealth/cwi-server/internal/protocol"
)

// AlertWriter consumes the alerts topic and batch-writes raised alerts
// into the alert_log audit table. Offsets are committed only after a
// message lands in the database.
type AlertWriter struct {
	consumer      *Consumer
	db            *database.DB
	logger        *zap.Logger
	batchSize     int
	flushInterval time.Duration
	stopCh        chan struct{}
	wg            sync.WaitGroup
}

// NewAlertWriter creates a new alert writer
func NewAlertWriter(consumer *Consumer, db *database.DB, logger *zap.Logger, batchSize int, flushInterval time.Duration) *AlertWriter {
	return &AlertWriter{
		consumer:      consumer,
		db:            db,
		logger:        logger,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		stopCh:        make(chan struct{}),
	}
}

// Start begins consuming and writing to the audit log
func (aw *AlertWriter) Start(ctx context.Context) {
	aw.wg.Add(1)
	go aw.run(ctx)
}

// Stop stops the alert writer gracefully, flushing any pending batch
func (aw *AlertWriter) Stop() {
	close(aw.stopCh)
	aw.wg.Wait()
}

func (aw *AlertWriter) run(ctx context.Context) {
	defer aw.wg.Done()

	var batch []kafka.Message
	ticker := time.NewTicker(aw.flushInterval)
	defer ticker.Stop()

	msgChan := make(chan kafka.Message, 10)
	go func() {
		for {
			msg, err := aw.consumer.Consume(ctx)
			if err != nil {
				select {
				case <-aw.stopCh:
					return
				case <-ctx.Done():
					return
				default:
				}
				aw.logger.Warn("consumer error", zap.Error(err))
				continue
			}
			select {
			case msgChan <- msg:
			case <-aw.stopCh:
				return
			}
		}
	}()

	for {
		select {
		case <-aw.stopCh:
			if len(batch) > 0 {
				aw.flush(ctx, batch)
			}
			return

		case <-ticker.C:
			if len(batch) > 0 {
				aw.flush(ctx, batch)
				batch = nil
			}

		case msg := <-msgChan:
			batch = append(batch, msg)
			if len(batch) >= aw.batchSize {
				aw.flush(ctx, batch)
				batch = nil
			}
		}
	}
}

func (aw *AlertWriter) flush(ctx context.Context, batch []kafka.Message) {
	entries := make([]database.AlertLogEntry, 0, len(batch))
	decoded := make([]kafka.Message, 0, len(batch))

	for _, msg := range batch {
		alert, err := protocol.DecodeAlertMessage(msg.Value)
		if err != nil {
			// Malformed message; commit it so it is not redelivered forever.
			aw.logger.Error("failed to decode alert message",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			if err := aw.consumer.Commit(ctx, msg); err != nil {
				aw.logger.Warn("failed to commit malformed message", zap.Error(err))
			}
			continue
		}

		entries = append(entries, database.AlertLogEntry{
			EventID:    alert.EventID,
			Department: alert.Department,
			WasteType:  alert.WasteType,
			QuantityKg: alert.QuantityKg,
			RiskScore:  alert.RiskScore,
			Band:       alert.Band,
			Message:    alert.Message,
			RaisedAt:   alert.RaisedAt,
		})
		decoded = append(decoded, msg)
	}

	if len(entries) == 0 {
		return
	}

	if err := aw.db.InsertAlertLogBatch(ctx, entries); err != nil {
		// Leave offsets uncommitted; the batch is redelivered.
		aw.logger.Error("failed to write alert batch", zap.Int("size", len(entries)), zap.Error(err))
		return
	}

	for _, msg := range decoded {
		if err := aw.consumer.Commit(ctx, msg); err != nil {
			aw.logger.Warn("failed to commit offset",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}

	aw.logger.Info("flushed alert batch", zap.Int("size", len(entries)))
}
