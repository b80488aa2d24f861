package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultInstrumentationName names the tracer when the config leaves it empty.
const DefaultInstrumentationName = "github.com/xraph/inject"

// TracingConfig configures request tracing.
type TracingConfig struct {
	Enabled             bool   `yaml:"enabled"`
	InstrumentationName string `yaml:"instrumentation_name"`
}

// Tracer starts one span per container request.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from tp, falling back to the global provider.
// A disabled config yields a no-op tracer.
func NewTracer(config TracingConfig, tp trace.TracerProvider) *Tracer {
	if !config.Enabled {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer("")}
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	name := config.InstrumentationName
	if name == "" {
		name = DefaultInstrumentationName
	}
	return &Tracer{tracer: tp.Tracer(name)}
}

// StartRequest opens the span for a request against container. target is
// only called when the span records.
func (t *Tracer) StartRequest(ctx context.Context, container string, target func() string) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	ctx, span := t.tracer.Start(ctx, "inject.Request",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("inject.container", container)),
	)
	if span.IsRecording() && target != nil {
		span.SetAttributes(attribute.String("inject.target", target()))
	}
	return ctx, span
}

// EndRequest records the request result on span and ends it.
func EndRequest(span trace.Span, err error, code string, deferred bool) {
	span.SetAttributes(attribute.Bool("inject.deferred", deferred))
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("inject.error_code", code))
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
