// Package kafka publishes ranked impact summaries for downstream consumers
// in the storm data platform.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// Table names carried in the "table" message header.
const (
	tableHealth   = "health"
	tableEconomic = "economic"
)

// Publisher produces summary rows to a Kafka topic, one message per row.
// It implements pipeline.SummaryPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured summary topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSummaries serializes every retained summary row from both tables
// and publishes them in a single WriteMessages call.
func (p *Publisher) PublishSummaries(ctx context.Context, report domain.Report) error {
	msgs := make([]kafkago.Message, 0, len(report.Health)+len(report.Economic))

	for _, row := range report.Health {
		msg, err := summaryMessage(row.EventType, row, tableHealth, report.GeneratedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	for _, row := range report.Economic {
		msg, err := summaryMessage(row.EventType, row, tableEconomic, report.GeneratedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish summaries: %w", err)
	}

	p.logger.Info("summaries published", "topic", p.writer.Topic, "messages", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// summaryMessage marshals one summary row into a Kafka message keyed by
// event type, tagged with its table and the report generation time.
func summaryMessage(key string, row any, table string, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s summary: %w", table, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "table", Value: []byte(table)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
