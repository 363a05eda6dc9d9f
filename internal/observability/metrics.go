package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline and the nightly-aggregation query path.
type Metrics struct {
	FilesLoaded    prometheus.Counter
	ReadingsLoaded prometheus.Counter
	MalformedRows  prometheus.Counter
	DatasetLoaded  prometheus.Gauge
	LoadDuration   prometheus.Histogram

	// Query-path metrics.
	QueryDuration  prometheus.Histogram
	NightsReturned prometheus.Histogram

	// Export metrics.
	ExportEnabled     prometheus.Gauge
	SummariesExported prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightsky",
			Name:      "files_loaded_total",
			Help:      "Total photometer log files parsed at startup.",
		}),
		ReadingsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightsky",
			Name:      "readings_loaded_total",
			Help:      "Total readings parsed into the in-memory dataset.",
		}),
		MalformedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightsky",
			Name:      "malformed_rows_total",
			Help:      "Total log rows skipped due to schema violations.",
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nightsky",
			Name:      "dataset_loaded",
			Help:      "1 once the dataset has been loaded into memory.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nightsky",
			Name:      "load_duration_seconds",
			Help:      "Duration of the startup directory load.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nightsky",
			Name:      "query_duration_seconds",
			Help:      "Duration of one nightly-aggregation recomputation.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		NightsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nightsky",
			Name:      "nights_returned",
			Help:      "Number of plot-ready rows per aggregation query.",
			Buckets:   []float64{0, 1, 5, 10, 30, 60, 120, 250, 400},
		}),
		ExportEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nightsky",
			Name:      "export_enabled",
			Help:      "1 when the Kafka summary export is enabled, 0 otherwise.",
		}),
		SummariesExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightsky",
			Name:      "summaries_exported_total",
			Help:      "Total nightly summaries published to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.FilesLoaded,
		m.ReadingsLoaded,
		m.MalformedRows,
		m.DatasetLoaded,
		m.LoadDuration,
		m.QueryDuration,
		m.NightsReturned,
		m.ExportEnabled,
		m.SummariesExported,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesLoaded:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightsky", Name: "files_loaded_total"}),
		ReadingsLoaded:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightsky", Name: "readings_loaded_total"}),
		MalformedRows:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightsky", Name: "malformed_rows_total"}),
		DatasetLoaded:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "nightsky", Name: "dataset_loaded"}),
		LoadDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "nightsky", Name: "load_duration_seconds"}),
		QueryDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "nightsky", Name: "query_duration_seconds"}),
		NightsReturned:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "nightsky", Name: "nights_returned"}),
		ExportEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "nightsky", Name: "export_enabled"}),
		SummariesExported: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightsky", Name: "summaries_exported_total"}),
	}
}
