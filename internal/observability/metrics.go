package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsConfig configures resolution metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// Request outcomes recorded by ObserveRequest.
const (
	OutcomeOK       = "ok"
	OutcomeDeferred = "deferred"
	OutcomeError    = "error"
)

// Metrics records resolution activity with Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	invocations     *prometheus.CounterVec
	failures        *prometheus.CounterVec
}

// NewMetrics creates the resolution collectors and registers them on reg.
// When reg is nil a private registry is created; see Registry.
// Returns nil when metrics are disabled.
func NewMetrics(config MetricsConfig, reg prometheus.Registerer) (*Metrics, error) {
	if !config.Enabled {
		return nil, nil
	}

	m := &Metrics{}
	if reg == nil {
		m.registry = prometheus.NewRegistry()
		reg = m.registry
	}

	namespace := config.Namespace
	subsystem := config.Subsystem

	var err error
	if m.requestsTotal, err = registerCounterVec(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "Total number of container requests",
	}, "outcome"); err != nil {
		return nil, err
	}

	if m.requestDuration, err = registerHistogramVec(reg, prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Synchronous part of container request latency",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, "outcome"); err != nil {
		return nil, err
	}

	if m.cacheHits, err = registerCounterVec(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of scoped instance cache hits",
	}, "scope"); err != nil {
		return nil, err
	}

	if m.cacheMisses, err = registerCounterVec(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of scoped instance cache misses",
	}, "scope"); err != nil {
		return nil, err
	}

	if m.invocations, err = registerCounterVec(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "binding_invocations_total",
		Help:      "Total number of binding function invocations",
	}, "mode"); err != nil {
		return nil, err
	}

	if m.failures, err = registerCounterVec(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "failures_total",
		Help:      "Total number of failed requests by error code",
	}, "code"); err != nil {
		return nil, err
	}

	return m, nil
}

// Registry returns the private registry created when NewMetrics was given a
// nil registerer, or nil.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one top-level request.
func (m *Metrics) ObserveRequest(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.requestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// CacheHit records a cache hit for scope.
func (m *Metrics) CacheHit(scope string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(scope).Inc()
}

// CacheMiss records a cache miss for scope.
func (m *Metrics) CacheMiss(scope string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(scope).Inc()
}

// Invocation records a binding function call; mode is "sync" or "async".
func (m *Metrics) Invocation(mode string) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(mode).Inc()
}

// Failure records a failed request by error code.
func (m *Metrics) Failure(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.failures.WithLabelValues(code).Inc()
}

// registerCounterVec registers a counter vector, reusing an identical
// collector that is already registered on reg.
func registerCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, labels ...string) (*prometheus.CounterVec, error) {
	vec := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, opts prometheus.HistogramOpts, labels ...string) (*prometheus.HistogramVec, error) {
	vec := prometheus.NewHistogramVec(opts, labels)
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}
