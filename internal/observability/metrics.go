package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	dialogueOutcomes  *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	scheduleWrites    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agenda_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agenda_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "agenda_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		dialogueOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agenda_dialogue_outcomes_total",
			Help: "Dialogue runs by outcome (conversational, schedule_replacement, or failed step).",
		}, []string{"outcome"}),
		completionLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agenda_completion_duration_seconds",
			Help:    "Completion gateway latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"provider", "status"}),
		scheduleWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agenda_schedule_writes_total",
			Help: "Schedule replace attempts by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveDialogue(outcome string) {
	if m != nil {
		m.dialogueOutcomes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveCompletion(provider, status string, d time.Duration) {
	if m != nil {
		m.completionLatency.WithLabelValues(provider, status).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveScheduleWrite(result string) {
	if m != nil {
		m.scheduleWrites.WithLabelValues(result).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
