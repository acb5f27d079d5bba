package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// event intake and escalation pipeline.
type Metrics struct {
	EventsCreated         *prometheus.CounterVec // labels: source={api,remote}
	SeverityUpdates       prometheus.Counter
	SeverityFeedDropped   prometheus.Counter
	AlertsDispatched      prometheus.Counter
	AlertFailures         prometheus.Counter
	DescriptionsProcessed prometheus.Counter
	ListDuration          prometheus.Histogram

	// Remote report ingestion metrics.
	ReportsConsumed prometheus.Counter
	ReportErrors    prometheus.Counter
	IngestRunning   prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "events_created_total",
			Help:      "Total events persisted, by intake source.",
		}, []string{"source"}),
		SeverityUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "severity_updates_total",
			Help:      "Total predicted severity changes delivered to the watcher.",
		}),
		SeverityFeedDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "severity_feed_dropped_total",
			Help:      "Severity changes dropped because the feed buffer was full.",
		}),
		AlertsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "alerts_dispatched_total",
			Help:      "Total escalation alerts handed to the dispatcher.",
		}),
		AlertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "alert_failures_total",
			Help:      "Alert deliveries that failed. Failures are not retried.",
		}),
		DescriptionsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "descriptions_processed_total",
			Help:      "Total successful description normalizations.",
		}),
		ListDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_events",
			Name:      "list_duration_seconds",
			Help:      "Duration of a two-store merged list operation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		ReportsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "reports_consumed_total",
			Help:      "Total remote reports read from the source topic.",
		}),
		ReportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "report_errors_total",
			Help:      "Remote reports skipped because they failed to decode or validate.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_events",
			Name:      "ingest_running",
			Help:      "1 when the remote report consumer is active, 0 when shut down.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_events",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_events",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_events",
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.EventsCreated,
		m.SeverityUpdates,
		m.SeverityFeedDropped,
		m.AlertsDispatched,
		m.AlertFailures,
		m.DescriptionsProcessed,
		m.ListDuration,
		m.ReportsConsumed,
		m.ReportErrors,
		m.IngestRunning,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsCreated:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_events", Name: "events_created_total"}, []string{"source"}),
		SeverityUpdates:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_events", Name: "severity_updates_total"}),
		SeverityFeedDropped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_events", Name: "severity_feed_dropped_total"}),
		AlertsDispatched:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_events", Name: "alerts_dispatched_total"}),
		AlertFailures:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_events", Name: "alert_failures_total"}),
		DescriptionsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_events", Name: "descriptions_processed_total"}),
		ListDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "disaster_events", Name: "list_duration_seconds"}),
		ReportsConsumed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_events", Name: "reports_consumed_total"}),
		ReportErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_events", Name: "report_errors_total"}),
		IngestRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "disaster_events", Name: "ingest_running"}),
		GeocodeRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_events", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_events", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "disaster_events", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "disaster_events", Name: "geocode_enabled"}),
	}
}
