package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans created by this module.
const InstrumentationName = "newsletter-feed"

// GetTracer returns the tracer from the currently installed global provider.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Init installs an always-sampling SDK tracer provider and the W3C trace
// context propagator, so request logs and X-Trace-Id headers carry real
// trace IDs. Extra span processors (exporters) may be supplied.
// The returned function flushes and shuts the provider down.
func Init(processors ...sdktrace.SpanProcessor) func(context.Context) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}

// StartUpstream starts a client span for a call to a newsletter source.
func StartUpstream(ctx context.Context, source, operation string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, source+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("newsletter.source", source)),
	)
}

// EndUpstream records the outcome on span and ends it.
func EndUpstream(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("newsletter.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	span.End()
}
