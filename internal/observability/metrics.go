package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus instruments for one report run. Each Metrics
// carries its own registry: the process is a batch job, so nothing else
// shares the default registry, and tests can create as many instances as
// they like without "already registered" panics.
type Metrics struct {
	registry *prometheus.Registry

	RecordsFetched    prometheus.Counter
	RecordsImpactful  prometheus.Counter
	UnrecognizedCodes prometheus.Counter
	StageDuration     *prometheus.HistogramVec // label: stage={fetch,analyze,render,publish}
	SummaryRows       *prometheus.GaugeVec     // label: table={health,economic}
	RunSuccess        prometheus.Gauge
}

// NewMetrics creates all report metrics on a fresh registry, alongside the
// standard Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_fetched_total",
			Help:      "Total event records parsed from the dataset.",
		}),
		RecordsImpactful: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_impactful_total",
			Help:      "Records with recorded health or economic impact.",
		}),
		UnrecognizedCodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "unrecognized_magnitude_codes_total",
			Help:      "Damage columns whose magnitude code resolved to the zero multiplier.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storm_report",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}, []string{"stage"}),
		SummaryRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "summary_rows",
			Help:      "Ranked summary rows retained per table.",
		}, []string{"table"}),
		RunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "run_success",
			Help:      "1 when the report was generated, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RecordsFetched,
		m.RecordsImpactful,
		m.UnrecognizedCodes,
		m.StageDuration,
		m.SummaryRows,
		m.RunSuccess,
	)

	return m
}

// Registry exposes the run's registry for the diagnostics /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the registry in the node_exporter textfile collector
// format, the usual way batch jobs hand metrics to Prometheus.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
