package inject

import "github.com/xraph/inject/internal/observability"

// Metrics records resolution activity with Prometheus collectors.
type Metrics = observability.Metrics

// MetricsConfig configures resolution metrics.
type MetricsConfig = observability.MetricsConfig

// TracingConfig configures request tracing.
type TracingConfig = observability.TracingConfig

// NewMetrics creates resolution metrics registered on reg.
var NewMetrics = observability.NewMetrics
