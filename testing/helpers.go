package testing

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xraph/inject"
)

// NewTestRoot creates a root container configured for testing with a silent logger.
// This prevents log bloat in test output.
func NewTestRoot(opts ...inject.Option) *inject.Container {
	opts = append([]inject.Option{inject.WithName("test"), inject.WithLogger(inject.NewNoopLogger())}, opts...)
	return inject.NewRoot(opts...)
}

// NewObservedRoot creates a root container whose debug logs are captured.
// Use this when you need to assert log messages.
func NewObservedRoot(opts ...inject.Option) (*inject.Container, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]inject.Option{inject.WithLogger(inject.NewZapLogger(zap.New(core)))}, opts...)
	return NewTestRoot(opts...), logs
}

// NewMeteredRoot creates a root container recording metrics on a fresh
// registry, returned for gathering.
func NewMeteredRoot(opts ...inject.Option) (*inject.Container, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	cfg := inject.MetricsConfig{Enabled: true, Namespace: "inject"}
	opts = append([]inject.Option{inject.WithMetricsConfig(cfg, reg)}, opts...)
	return NewTestRoot(opts...), reg
}
