// Package telemetry counts what the service does: /metrics requests,
// PocketBase fetches, relay deliveries and the session state. Counters are
// exposed for Prometheus scraping and, optionally, pushed over OTLP.
//
// A nil *Recorder is valid and records nothing.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	constants "beszeltrmnl/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
)

// Recorder owns a private Prometheus registry and, once EnableOTel has
// been called, a matching set of OTel instruments.
type Recorder struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	relays        *prometheus.CounterVec
	authenticated prometheus.Gauge

	mu   sync.RWMutex
	otel *otelInstruments
}

// New creates a Recorder with Go runtime, process and build-info collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.METRICS_NAMESPACE,
			Name:      "metrics_requests_total",
			Help:      "Requests served on the metrics endpoint, by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constants.METRICS_NAMESPACE,
			Name:      "pocketbase_fetch_duration_seconds",
			Help:      "Latency of PocketBase system record fetches, by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		relays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.METRICS_NAMESPACE,
			Name:      "relay_deliveries_total",
			Help:      "TRMNL plugin relay attempts, by outcome.",
		}, []string{"outcome"}),
		authenticated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: constants.METRICS_NAMESPACE,
			Name:      "pocketbase_authenticated",
			Help:      "1 when a PocketBase session is held, 0 otherwise.",
		}),
	}

	r.registry.MustRegister(
		r.requests,
		r.fetchDuration,
		r.relays,
		r.authenticated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versioncollector.NewCollector(constants.METRICS_NAMESPACE),
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveRequest counts one /metrics request.
func (r *Recorder) ObserveRequest(outcome string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(outcome).Inc()
	if o := r.instruments(); o != nil {
		o.addRequest(outcome)
	}
}

// ObserveFetch records one PocketBase fetch.
func (r *Recorder) ObserveFetch(d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	r.fetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
	if o := r.instruments(); o != nil {
		o.recordFetch(d, outcome)
	}
}

// ObserveRelay counts one relay attempt.
func (r *Recorder) ObserveRelay(outcome string) {
	if r == nil {
		return
	}
	r.relays.WithLabelValues(outcome).Inc()
	if o := r.instruments(); o != nil {
		o.addRelay(outcome)
	}
}

// SetAuthenticated records whether a PocketBase session is held.
func (r *Recorder) SetAuthenticated(ok bool) {
	if r == nil {
		return
	}
	v := 0.0
	if ok {
		v = 1
	}
	r.authenticated.Set(v)
	if o := r.instruments(); o != nil {
		o.setAuthenticated(ok)
	}
}

func (r *Recorder) instruments() *otelInstruments {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.otel
}
