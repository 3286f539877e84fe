package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/totoro/internal/domain"
)

const namespace = "totoro"

// Metrics holds the collectors exported on /metrics. Each instance owns its
// registry so tests and reloads never collide on global registration.
type Metrics struct {
	registry *prometheus.Registry

	routes      *prometheus.GaugeVec
	rejected    *prometheus.GaugeVec
	reloads     *prometheus.CounterVec
	requests    *prometheus.CounterVec
	generations prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		routes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "routes",
			Name:      "registered",
			Help:      "Number of routes registered in the served generation, partitioned by version and deprecation",
		}, []string{"version", "deprecated"}),
		rejected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "routes",
			Name:      "rejected",
			Help:      "Number of active endpoints skipped at registration, partitioned by version",
		}, []string{"version"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "reloads_total",
			Help:      "The total number of API config reloads partitioned by result",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of requests served by API routes partitioned by version, method, route and status",
		}, []string{"version", "method", "route", "status"}),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "generations_total",
			Help:      "The total number of route generations swapped in",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.routes,
		m.rejected,
		m.reloads,
		m.requests,
		m.generations,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRegistration replaces the route gauges with the counts of reg.
func (m *Metrics) ObserveRegistration(reg domain.Registration) {
	m.routes.Reset()
	m.rejected.Reset()
	for _, r := range reg.Routes {
		m.routes.WithLabelValues(r.Version, strconv.FormatBool(r.Deprecated)).Inc()
	}
	for _, r := range reg.Rejected {
		m.rejected.WithLabelValues(r.Version).Inc()
	}
	m.generations.Inc()
}

func (m *Metrics) ObserveReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reloads.WithLabelValues(result).Inc()
}

// ObserveRequest counts one request served by route.
func (m *Metrics) ObserveRequest(route domain.Route, status int) {
	m.requests.WithLabelValues(route.Version, string(route.Method), route.Pattern, strconv.Itoa(status)).Inc()
}
