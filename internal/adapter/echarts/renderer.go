// Package echarts renders the impact report as a self-contained HTML page
// with two grouped-bar charts.
package echarts

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// Renderer writes the report artifact to a configured path. It implements
// pipeline.ReportRenderer.
type Renderer struct {
	path   string
	logger *slog.Logger
}

// NewRenderer creates a report renderer from config.
func NewRenderer(cfg *config.Config, logger *slog.Logger) *Renderer {
	return &Renderer{path: cfg.ReportPath, logger: logger}
}

// Render assembles both charts into one HTML page and writes it through a
// temp file, so a failed render never leaves a partial artifact behind.
func (r *Renderer) Render(_ context.Context, report domain.Report) error {
	page := components.NewPage()
	page.PageTitle = "Storm Impact Report"
	page.SetLayout(components.PageCenterLayout)
	page.AddCharts(healthChart(report), economicChart(report))

	tmp := r.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := page.Render(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("render report: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close report file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store report: %w", err)
	}

	r.logger.Info("report written", "path", r.path,
		"health_rows", len(report.Health), "economic_rows", len(report.Economic))
	return nil
}

// healthChart plots fatalities and injuries per event type, most harmful
// first. The narrative finding rides along as the subtitle.
func healthChart(report domain.Report) *charts.Bar {
	types, series := pivot(report.HealthData)

	bar := newBar(
		"Public health impact by storm event type",
		report.HealthFinding+"\nGenerated "+report.GeneratedAt.Format("2006-01-02 15:04 UTC"),
		"people affected",
	)
	bar.SetXAxis(types)
	for _, metric := range []string{domain.MetricFatalities, domain.MetricInjuries} {
		bar.AddSeries(metric, barData(series[metric], 1))
	}
	return bar
}

// economicChart plots property and crop damage per event type, scaled to
// billions of dollars for readability.
func economicChart(report domain.Report) *charts.Bar {
	types, series := pivot(report.EconomicData)

	bar := newBar(
		"Economic impact by storm event type",
		report.EconomicFinding,
		"damage (billion USD)",
	)
	bar.SetXAxis(types)
	for _, metric := range []string{domain.MetricPropCost, domain.MetricCropCost} {
		bar.AddSeries(metric, barData(series[metric], 1e-9))
	}
	return bar
}

func newBar(title, subtitle, yAxisName string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "540px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 30, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxisName}),
	)
	return bar
}

// pivot turns long-form (event type, metric, value) triples back into an
// x-axis of event types in rank order plus one value slice per metric.
func pivot(data []domain.ImpactDatum) ([]string, map[string][]float64) {
	var types []string
	seen := make(map[string]bool)
	series := make(map[string][]float64)

	for _, d := range data {
		if !seen[d.EventType] {
			seen[d.EventType] = true
			types = append(types, d.EventType)
		}
		series[d.Metric] = append(series[d.Metric], d.Value)
	}
	return types, series
}

func barData(values []float64, scale float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v * scale}
	}
	return out
}
