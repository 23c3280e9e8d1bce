// Package metrics exposes the gateway's Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ruteri/rwa-id-gateway/interfaces"
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeBadRequest  = "bad_request"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "registry_unavailable"
	OutcomeError       = "error"
)

// Metrics holds the gateway's collectors in a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	resolutions   *prometheus.CounterVec
	registryCalls *prometheus.HistogramVec
}

// NewMetrics creates collectors under namespace, along with the Go and process collectors.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Name resolutions by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		registryCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_call_duration_seconds",
			Help:      "Latency of registry contract reads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
	}

	m.registry.MustRegister(
		m.resolutions,
		m.registryCalls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// OutcomeForError classifies err into an outcome label.
func OutcomeForError(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, interfaces.ErrInvalidName),
		errors.Is(err, interfaces.ErrMalformedWireName),
		errors.Is(err, interfaces.ErrMalformedPayload):
		return OutcomeBadRequest
	case errors.Is(err, interfaces.ErrProjectNotFound):
		return OutcomeNotFound
	case errors.Is(err, interfaces.ErrRegistryUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}

// ObserveResolution counts one request on endpoint finishing with err.
func (m *Metrics) ObserveResolution(endpoint string, err error) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(endpoint, OutcomeForError(err)).Inc()
}

// ObserveRegistryCall implements interfaces.RegistryObserver.
func (m *Metrics) ObserveRegistryCall(method string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.registryCalls.WithLabelValues(method, OutcomeForError(err)).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
