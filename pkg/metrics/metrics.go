package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ConsultantsCreated  prometheus.Counter
	ConsultantsUpdated  prometheus.Counter
	ConsultantsDeleted  prometheus.Counter
	SeedRowsInserted    prometheus.Counter
}

// New creates a registry with runtime collectors and registers the application metrics on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consultants_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consultants_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ConsultantsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "consultants_created_total",
			Help: "Consultant records created through the API",
		}),
		ConsultantsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "consultants_updated_total",
			Help: "Consultant records updated through the API",
		}),
		ConsultantsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "consultants_deleted_total",
			Help: "Consultant records deleted through the API",
		}),
		SeedRowsInserted: f.NewCounter(prometheus.CounterOpts{
			Name: "consultants_seed_rows_inserted_total",
			Help: "Built-in consultant rows inserted by the seed loader",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncCreated() {
	if m != nil {
		m.ConsultantsCreated.Inc()
	}
}

func (m *Metrics) IncUpdated() {
	if m != nil {
		m.ConsultantsUpdated.Inc()
	}
}

func (m *Metrics) IncDeleted() {
	if m != nil {
		m.ConsultantsDeleted.Inc()
	}
}

func (m *Metrics) AddSeeded(n int64) {
	if m != nil && n > 0 {
		m.SeedRowsInserted.Add(float64(n))
	}
}
