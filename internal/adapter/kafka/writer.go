// Package kafka publishes computed nightly summaries to a sink topic so
// downstream consumers (archival, alerting) can pick them up without
// querying the dashboard API.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/darkridge/nightsky-etl/internal/config"
	"github.com/darkridge/nightsky-etl/internal/domain"
)

// Writer produces nightly summaries to a Kafka topic.
// It implements pipeline.Exporter.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// ExportBatch serializes and publishes the summaries in a single
// WriteMessages call. The date key keeps all exports for one night in
// one partition, so replays overwrite in order downstream.
func (w *Writer) ExportBatch(ctx context.Context, summaries []domain.NightSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(summaries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a NightSummary into a Kafka message.
func serializeToMessage(summary domain.NightSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize night summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.Date.Format(time.DateOnly)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "computed_at", Value: []byte(summary.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
