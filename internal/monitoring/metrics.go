package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the site architecture service.
type Metrics struct {
	Registry          *prometheus.Registry
	ImportsTotal      *prometheus.CounterVec
	RowsParsedTotal   prometheus.Counter
	PagesDroppedTotal prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	imports := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteplan_imports_total",
			Help: "Total site map imports by outcome.",
		},
		[]string{"outcome"},
	)
	rowsParsed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "siteplan_import_rows_parsed_total",
			Help: "Total rows successfully parsed from import files.",
		},
	)
	pagesDropped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "siteplan_pages_dropped_total",
			Help: "Total pages dropped by reconciliation (removed from source sheet).",
		},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "siteplan_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	registry.MustRegister(imports, rowsParsed, pagesDropped, requestDuration)

	return &Metrics{
		Registry:          registry,
		ImportsTotal:      imports,
		RowsParsedTotal:   rowsParsed,
		PagesDroppedTotal: pagesDropped,
		RequestDuration:   requestDuration,
	}
}

// IncImport increments the imports counter for an outcome label.
func (m *Metrics) IncImport(outcome string) {
	if m == nil {
		return
	}
	m.ImportsTotal.WithLabelValues(outcome).Inc()
}

// AddRowsParsed records how many rows an import parsed.
func (m *Metrics) AddRowsParsed(n int) {
	if m == nil {
		return
	}
	m.RowsParsedTotal.Add(float64(n))
}

// AddPagesDropped records pages removed by a reconciliation.
func (m *Metrics) AddPagesDropped(n int) {
	if m == nil {
		return
	}
	m.PagesDroppedTotal.Add(float64(n))
}

// ObserveRequest records a request duration for a route.
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}
