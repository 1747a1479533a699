// Command report generates the storm impact report: it downloads (or reuses
// a cached copy of) the NOAA storm events dataset, aggregates health and
// economic impact per event type, and writes an HTML report with two
// grouped-bar charts. Optionally publishes the ranked summaries to Kafka and
// exports run metrics for the Prometheus textfile collector.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/echarts"
	httpadapter "github.com/couchcryptid/storm-impact-report/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/storm-impact-report/internal/adapter/kafka"
	"github.com/couchcryptid/storm-impact-report/internal/adapter/noaa"
	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := noaa.NewClient(cfg, logger)
	renderer := echarts.NewRenderer(cfg, logger)

	var publisher pipeline.SummaryPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSummaryTopic)
	}

	p := pipeline.New(fetcher, renderer, publisher, domain.DefaultMultipliers(), cfg.TopN, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Diagnostics listener is opt-in; a plain run needs no open port.
	var srv *httpadapter.Server
	if cfg.DiagAddr != "" {
		srv = httpadapter.NewServer(cfg.DiagAddr, p, metrics.Registry(), logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("diagnostics server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile write failed", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("diagnostics server shutdown error", "error", err)
		}
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("report run failed", "error", runErr)
		os.Exit(1)
	}
}
