package producer

import (
	"context"
	"time"

	"go-carehome/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const relayBatchSize = 50

// ProcessOutboxEvents polls the outbox table and relays pending notification
// events to kafka until ctx is cancelled. Failed rows are marked for retry
// with backoff and picked up on a later tick.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox relay started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if err := relayPending(ctx, repo, writer, log); err != nil {
				log.Error("outbox relay tick failed", zap.Error(err))
			}
		}
	}
}

func relayPending(ctx context.Context, repo kafka.OutboxRepository, writer *kafkago.Writer, log *zap.Logger) error {
	events, err := repo.ListPending(ctx, relayBatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	log.Debug("relaying outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
			zap.Int("retry_count", event.RetryCount),
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			log.Error("publish outbox event failed", append(fields, zap.Error(err))...)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// The message is already on the broker. The row stays pending and
			// will be republished, consumers must tolerate duplicates.
			log.Error("mark outbox sent failed", append(fields, zap.Error(err))...)
			continue
		}

		log.Info("outbox event sent", fields...)
	}

	return nil
}
