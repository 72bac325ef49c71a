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

// Metrics provides observability for the career engine.
// Collectors are registered on a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	EventsTotal     *prometheus.CounterVec
	ConflictRetries prometheus.Counter
	UsersRegistered prometheus.Counter
	ActiveStreams   prometheus.Gauge
	DependencyUp    *prometheus.GaugeVec
}

// New creates a new Metrics instance with all collectors registered
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "career_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "career_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "career_progress_events_total",
			Help: "Progress events applied, by event kind and result",
		}, []string{"event", "result"}),
		ConflictRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "career_progress_conflict_retries_total",
			Help: "Progress updates retried after a version conflict",
		}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "career_users_registered_total",
			Help: "Total number of registered users",
		}),
		ActiveStreams: factory.NewGauge(prometheus.GaugeOpts{
			Name: "career_progress_streams_active",
			Help: "Open progress websocket streams",
		}),
		DependencyUp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "career_dependency_up",
			Help: "Whether a dependency passed its last health check (1) or not (0)",
		}, []string{"dependency"}),
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// ObserveEvent records the result of applying a progress event
func (m *Metrics) ObserveEvent(event, result string) {
	m.EventsTotal.WithLabelValues(event, result).Inc()
}

// ObserveDependency records the result of a dependency health check
func (m *Metrics) ObserveDependency(name string, err error) {
	up := 1.0
	if err != nil {
		up = 0
	}
	m.DependencyUp.WithLabelValues(name).Set(up)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
