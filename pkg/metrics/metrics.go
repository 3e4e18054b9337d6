// Package metrics exposes Prometheus collectors for the layout engine.
//
// A [Registry] implements every hook interface in pkg/observability, so
// wiring it is a matter of registering it at startup:
//
//	reg := metrics.NewRegistry()
//	reg.Install()
//	http.Handle("/metrics", reg.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/observability"
)

const namespace = "lenslayout"

// Registry holds every collector on a private prometheus.Registry.
type Registry struct {
	registry *prometheus.Registry

	SolvesTotal        *prometheus.CounterVec
	SolveSteps         *prometheus.HistogramVec
	SolveDuration      *prometheus.HistogramVec
	ActiveSolves       *prometheus.GaugeVec
	TransitionsTotal   *prometheus.CounterVec
	TransitionDuration *prometheus.HistogramVec
	CacheHitsTotal     *prometheus.CounterVec
	CacheMissesTotal   *prometheus.CounterVec
	CacheBytesWritten  *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	HTTPInFlight       prometheus.Gauge
}

// NewRegistry creates a registry with all collectors registered, plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initLayoutMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initLayoutMetrics() {
	f := promauto.With(r.registry)
	r.SolvesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Layout runs by algorithm and outcome",
		},
		[]string{"algorithm", "outcome"}, // converged, stopped, canceled, error
	)
	r.SolveSteps = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_steps",
			Help:      "Relaxation steps per layout run",
			Buckets:   []float64{0, 10, 50, 100, 250, 500, 700, 1000},
		},
		[]string{"algorithm"},
	)
	r.SolveDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of layout runs",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"algorithm"},
	)
	r.ActiveSolves = f.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_solves",
			Help:      "Layout runs currently in progress",
		},
		[]string{"algorithm"},
	)
	r.TransitionsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Animated transitions by target algorithm and outcome",
		},
		[]string{"to", "outcome"},
	)
	r.TransitionDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Wall time of animated transitions",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"to"},
	)
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheHitsTotal = f.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_hits_total", Help: "Cache hits by key type"},
		[]string{"type"},
	)
	r.CacheMissesTotal = f.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_misses_total", Help: "Cache misses by key type"},
		[]string{"type"},
	)
	r.CacheBytesWritten = f.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_written_bytes_total", Help: "Bytes written to the cache"},
		[]string{"type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	r.HTTPDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	r.HTTPInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served",
	})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Install registers r as the process-wide observability hooks.
func (r *Registry) Install() {
	observability.SetLayoutHooks(r)
	observability.SetTransitionHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

func (r *Registry) OnSolveStart(_ context.Context, algorithm string, _ int) {
	r.ActiveSolves.WithLabelValues(algorithm).Inc()
}

func (r *Registry) OnSolveStep(context.Context, string, int) {}

func (r *Registry) OnSolveComplete(_ context.Context, algorithm string, steps int, d time.Duration, converged bool, err error) {
	r.ActiveSolves.WithLabelValues(algorithm).Dec()
	r.SolvesTotal.WithLabelValues(algorithm, outcome(converged, err)).Inc()
	r.SolveSteps.WithLabelValues(algorithm).Observe(float64(steps))
	r.SolveDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (r *Registry) OnTransitionStart(context.Context, string, string, int) {}

func (r *Registry) OnTransitionComplete(_ context.Context, _, to string, _ int, d time.Duration, err error) {
	r.TransitionsTotal.WithLabelValues(to, outcome(err == nil, err)).Inc()
	r.TransitionDuration.WithLabelValues(to).Observe(d.Seconds())
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheBytesWritten.WithLabelValues(keyType).Add(float64(size))
}

func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPInFlight.Inc()
}

func (r *Registry) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	r.HTTPInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(converged bool, err error) string {
	switch {
	case errors.Is(err, errors.ErrCodeCanceled):
		return "canceled"
	case err != nil:
		return "error"
	case converged:
		return "converged"
	default:
		return "stopped"
	}
}
