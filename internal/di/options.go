package di

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/inject/internal/config"
	"github.com/xraph/inject/internal/errors"
	"github.com/xraph/inject/internal/logger"
	"github.com/xraph/inject/internal/observability"
)

// Option configures a root container.
type Option func(*options)

type options struct {
	name           string
	logger         logger.Logger
	metrics        *observability.Metrics
	metricsConfig  observability.MetricsConfig
	registerer     prometheus.Registerer
	tracingConfig  observability.TracingConfig
	tracerProvider trace.TracerProvider
}

func defaultOptions() options {
	return options{name: "root"}
}

// WithName sets the root container's name used in logs, spans and error
// context. Children derive their names from it.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger shared by the root and all its descendants.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records resolution metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithMetricsConfig creates resolution metrics from cfg and registers them
// on reg (a private registry when nil).
func WithMetricsConfig(cfg observability.MetricsConfig, reg prometheus.Registerer) Option {
	return func(o *options) {
		o.metricsConfig = cfg
		o.registerer = reg
	}
}

// WithTracerProvider enables request tracing on tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracingConfig.Enabled = true
		o.tracerProvider = tp
	}
}

// WithConfig applies a loaded configuration: name, logger, metrics and tracing.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		if cfg.Name != "" {
			o.name = cfg.Name
		}
		o.logger = logger.NewLogger(cfg.Logging)
		o.metricsConfig = cfg.Metrics
		o.tracingConfig = cfg.Tracing
	}
}

// observer bundles the logger, metrics and tracer of a container tree.
type observer struct {
	log     logger.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

func newObserver(o options) *observer {
	obs := &observer{log: o.logger, metrics: o.metrics}
	if obs.log == nil {
		obs.log = logger.NewNoopLogger()
	}
	if obs.metrics == nil && o.metricsConfig.Enabled {
		m, err := observability.NewMetrics(o.metricsConfig, o.registerer)
		if err != nil {
			obs.log.Warn("resolution metrics disabled", logger.Error(err))
		}
		obs.metrics = m
	}
	obs.tracer = observability.NewTracer(o.tracingConfig, o.tracerProvider)
	return obs
}

func (o *observer) requestDone(c *Container, tree any, elapsed time.Duration, err error, deferred bool) {
	switch {
	case err != nil:
		code := errors.CodeOf(err)
		o.metrics.ObserveRequest(observability.OutcomeError, elapsed)
		o.metrics.Failure(code)
		o.log.Warn("request failed",
			logger.String("container", c.name),
			logger.String("target", describe(tree)),
			logger.String("code", code),
			logger.Error(err),
		)
	case deferred:
		o.metrics.ObserveRequest(observability.OutcomeDeferred, elapsed)
	default:
		o.metrics.ObserveRequest(observability.OutcomeOK, elapsed)
	}
}
