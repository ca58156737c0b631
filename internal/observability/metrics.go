package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the GSOD
// ingest pipeline.
type Metrics struct {
	RecordsParsed    prometheus.Counter
	RecordsPublished prometheus.Counter
	ParseErrors      *prometheus.CounterVec // label: kind={date,numeric,indicator,short_record,header,other}
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Archive fetch metrics.
	ArchiveFetches       *prometheus.CounterVec // labels: outcome={success,not_found,error}
	ArchiveFetchDuration prometheus.Histogram
	FetchCache           *prometheus.CounterVec // label: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gsod_etl",
			Name:      "records_parsed_total",
			Help:      "Total archive lines successfully parsed.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gsod_etl",
			Name:      "records_published_total",
			Help:      "Total normalized records written to the sink topic.",
		}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gsod_etl",
			Name:      "parse_errors_total",
			Help:      "Archive lines rejected by the parser, by error kind.",
		}, []string{"kind"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gsod_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gsod_etl",
			Name:      "batch_size",
			Help:      "Number of archive lines per extracted batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gsod_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ArchiveFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gsod_etl",
			Name:      "archive_fetches_total",
			Help:      "NOAA archive HTTP fetches by outcome.",
		}, []string{"outcome"}),
		ArchiveFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gsod_etl",
			Name:      "archive_fetch_duration_seconds",
			Help:      "NOAA archive HTTP request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gsod_etl",
			Name:      "fetch_cache_total",
			Help:      "Archive fetch cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.RecordsParsed,
		m.RecordsPublished,
		m.ParseErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ArchiveFetches,
		m.ArchiveFetchDuration,
		m.FetchCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsParsed:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gsod_etl", Name: "records_parsed_total"}),
		RecordsPublished:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gsod_etl", Name: "records_published_total"}),
		ParseErrors:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gsod_etl", Name: "parse_errors_total"}, []string{"kind"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "gsod_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gsod_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gsod_etl", Name: "batch_processing_duration_seconds"}),
		ArchiveFetches:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gsod_etl", Name: "archive_fetches_total"}, []string{"outcome"}),
		ArchiveFetchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gsod_etl", Name: "archive_fetch_duration_seconds"}),
		FetchCache:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gsod_etl", Name: "fetch_cache_total"}, []string{"result"}),
	}
}
