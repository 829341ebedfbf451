package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics on a dedicated Prometheus
// registry.
type Registry struct {
	reg *prometheus.Registry

	// Operation counters, incremented by the service layer.
	DropoffsTotal  *prometheus.CounterVec
	PickupsTotal   *prometheus.CounterVec
	DenialsTotal   *prometheus.CounterVec
	ReferenceOps   *prometheus.CounterVec
	LockoutsTotal  prometheus.Counter
	AuthFailsTotal prometheus.Counter

	// Request metrics, observed by HTTP middleware.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates and registers all application metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	r := &Registry{
		reg: reg,
		DropoffsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dropzone_dropoffs_total",
			Help: "Accepted payload drop-offs per zone.",
		}, []string{"zone"}),
		PickupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dropzone_pickups_total",
			Help: "Successful payload pickups per zone.",
		}, []string{"zone"}),
		DenialsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dropzone_denials_total",
			Help: "Quota denials per zone and operation kind.",
		}, []string{"zone", "kind"}),
		ReferenceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dropzone_reference_ops_total",
			Help: "Reference operations per zone and verb.",
		}, []string{"zone", "verb"}),
		LockoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dropzone_lockouts_total",
			Help: "Requests refused because the caller address was locked out.",
		}),
		AuthFailsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dropzone_auth_failures_total",
			Help: "Requests with a missing or mismatched access token.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dropzone_http_requests_total",
			Help: "HTTP requests per route and status code.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dropzone_http_request_duration_seconds",
			Help:    "HTTP request latency per route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		r.DropoffsTotal,
		r.PickupsTotal,
		r.DenialsTotal,
		r.ReferenceOps,
		r.LockoutsTotal,
		r.AuthFailsTotal,
		r.RequestsTotal,
		r.RequestDuration,
	)
	return r
}

// Register adds an extra collector, used for the per-zone stats
// collector that needs the storage backend.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.reg.Register(c)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gather exposes the underlying registry for tests.
func (r *Registry) Gather() prometheus.Gatherer {
	return r.reg
}
