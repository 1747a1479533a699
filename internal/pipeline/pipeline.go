// Package pipeline orchestrates one report run: fetch the dataset, build the
// impact report, render the artifact, and optionally publish the summaries.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
)

// DatasetFetcher produces the parsed event records.
type DatasetFetcher interface {
	Fetch(ctx context.Context) ([]domain.EventRecord, error)
}

// ReportRenderer writes the report artifact.
type ReportRenderer interface {
	Render(ctx context.Context, report domain.Report) error
}

// SummaryPublisher forwards ranked summary rows to downstream consumers.
type SummaryPublisher interface {
	PublishSummaries(ctx context.Context, report domain.Report) error
}

// Pipeline runs the full fetch-analyze-render-publish sequence once.
type Pipeline struct {
	fetcher     DatasetFetcher
	renderer    ReportRenderer
	publisher   SummaryPublisher // nil disables publishing
	multipliers map[string]float64
	topN        int
	logger      *slog.Logger
	metrics     *observability.Metrics
	done        atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to disable summary publishing.
func New(f DatasetFetcher, r ReportRenderer, p SummaryPublisher, multipliers map[string]float64, topN int, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:     f,
		renderer:    r,
		publisher:   p,
		multipliers: multipliers,
		topN:        topN,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the report artifact has been written.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.done.Load() {
		return errors.New("report has not been generated yet")
	}
	return nil
}

// Run executes one report run. Any stage failure aborts the run; no partial
// artifact is produced.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	records, err := p.fetchStage(ctx)
	if err != nil {
		return err
	}

	report := p.analyzeStage(records)

	if err := p.renderStage(ctx, report); err != nil {
		return err
	}

	if err := p.publishStage(ctx, report); err != nil {
		return err
	}

	p.metrics.RunSuccess.Set(1)
	p.done.Store(true)
	p.logger.Info("report run complete",
		"duration", time.Since(start).Round(time.Millisecond),
		"records_analyzed", report.RecordsAnalyzed,
	)
	return nil
}

func (p *Pipeline) fetchStage(ctx context.Context) ([]domain.EventRecord, error) {
	start := time.Now()
	records, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.logger.Error("dataset fetch failed", "error", err)
		return nil, err
	}
	p.metrics.StageDuration.WithLabelValues("fetch").Observe(time.Since(start).Seconds())
	p.metrics.RecordsFetched.Add(float64(len(records)))
	p.logger.Info("dataset fetched", "records", len(records))
	return records, nil
}

func (p *Pipeline) analyzeStage(records []domain.EventRecord) domain.Report {
	start := time.Now()

	for code, n := range domain.UnknownCodes(records, p.multipliers) {
		p.logger.Warn("unrecognized magnitude code resolves to zero", "code", code, "columns", n)
		p.metrics.UnrecognizedCodes.Add(float64(n))
	}

	report := domain.BuildReport(records, p.multipliers, p.topN)

	p.metrics.StageDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())
	p.metrics.RecordsImpactful.Add(float64(report.RecordsAnalyzed))
	p.metrics.SummaryRows.WithLabelValues("health").Set(float64(len(report.Health)))
	p.metrics.SummaryRows.WithLabelValues("economic").Set(float64(len(report.Economic)))
	p.logger.Info("impact aggregated",
		"records_impactful", report.RecordsAnalyzed,
		"health_rows", len(report.Health),
		"economic_rows", len(report.Economic),
	)
	return report
}

func (p *Pipeline) renderStage(ctx context.Context, report domain.Report) error {
	start := time.Now()
	if err := p.renderer.Render(ctx, report); err != nil {
		p.logger.Error("report render failed", "error", err)
		return fmt.Errorf("render report: %w", err)
	}
	p.metrics.StageDuration.WithLabelValues("render").Observe(time.Since(start).Seconds())
	return nil
}

func (p *Pipeline) publishStage(ctx context.Context, report domain.Report) error {
	if p.publisher == nil {
		return nil
	}
	start := time.Now()
	if err := p.publisher.PublishSummaries(ctx, report); err != nil {
		p.logger.Error("summary publish failed", "error", err)
		return fmt.Errorf("publish summaries: %w", err)
	}
	p.metrics.StageDuration.WithLabelValues("publish").Observe(time.Since(start).Seconds())
	return nil
}
