package producer

import (
	"context"

	"go-carehome/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publishEvent relays one outbox row. Messages are keyed by aggregate id so
// all notifications for a roster entry or leave request land on one partition
// in order. The originating request id travels as a header for tracing.
func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "aggregate_type", Value: []byte(event.AggregateType)},
	}
	if event.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(event.RequestID)})
	}

	return writer.WriteMessages(ctx, kafkago.Message{
		Topic:   event.Topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	})
}
