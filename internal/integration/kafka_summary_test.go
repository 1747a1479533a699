//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/kafka"
	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

const testSummaryTopic = "test-storm-impact-summaries"

// summaryMessage holds a deserialized message read from the summary topic.
type summaryMessage struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("storm-impact-report-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TestPublishSummaries verifies the publisher round-trips every summary row
// through Kafka with its table and generation-time headers intact.
func TestPublishSummaries(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)

	generatedAt := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(generatedAt))
	defer domain.SetClock(nil)

	report := domain.BuildReport([]domain.EventRecord{
		{EventType: "TORNADO", Fatalities: 5, Injuries: 10},
		{EventType: "FLOOD", PropDamage: 25, PropDamageExp: "M"},
		{EventType: "TORNADO", Fatalities: 1},
		{EventType: "DROUGHT", CropDamage: 2, CropDamageExp: "B"},
	}, domain.DefaultMultipliers(), 10)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaSummaryTopic: testSummaryTopic,
	}

	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	require.NoError(t, publisher.PublishSummaries(ctx, report))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSummaryTopic,
		GroupID:     fmt.Sprintf("test-summaries-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	// 1 health row (TORNADO) + 2 economic rows (DROUGHT, FLOOD).
	expected := len(report.Health) + len(report.Economic)
	require.Equal(t, 3, expected)

	received := make([]summaryMessage, 0, expected)
	for range expected {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from summary topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		received = append(received, summaryMessage{
			Key:     string(msg.Key),
			Value:   msg.Value,
			Headers: headers,
		})
	}

	tableCounts := map[string]int{}
	for _, sm := range received {
		tableCounts[sm.Headers["table"]]++
		assert.Equal(t, generatedAt.Format(time.RFC3339), sm.Headers["generated_at"])
	}
	assert.Equal(t, 1, tableCounts["health"])
	assert.Equal(t, 2, tableCounts["economic"])

	// Spot-check payloads.
	var foundHealth, foundEconomic bool
	for _, sm := range received {
		switch {
		case sm.Headers["table"] == "health" && sm.Key == "TORNADO":
			foundHealth = true
			var row domain.HealthSummary
			require.NoError(t, json.Unmarshal(sm.Value, &row))
			assert.Equal(t, domain.HealthSummary{EventType: "TORNADO", Fatalities: 6, Injuries: 10}, row)
		case sm.Headers["table"] == "economic" && sm.Key == "DROUGHT":
			foundEconomic = true
			var row domain.EconomicSummary
			require.NoError(t, json.Unmarshal(sm.Value, &row))
			assert.Equal(t, 2e9, row.CropCost)
		}
	}
	assert.True(t, foundHealth, "expected TORNADO health summary")
	assert.True(t, foundEconomic, "expected DROUGHT economic summary")

	// Verify no extra message arrives.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected exactly %d messages on the summary topic", expected)
}
