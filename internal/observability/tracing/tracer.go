package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "favorite-feed"

// Config controls the process tracer provider.
type Config struct {
	ServiceName string
	// SampleRatio is the fraction of root spans sampled, clamped to [0, 1].
	// Child spans follow their parent's decision.
	SampleRatio float64
}

// GetTracer returns the application tracer from the current global provider.
func GetTracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(instrumentationName)
}

// InitTracer installs an SDK tracer provider and the W3C trace context
// propagator as globals. The caller owns the provider and must Shutdown it.
func InitTracer(cfg Config) *sdktrace.TracerProvider {
	name := cfg.ServiceName
	if name == "" {
		name = instrumentationName
	}

	ratio := cfg.SampleRatio
	switch {
	case ratio < 0:
		ratio = 0
	case ratio > 1:
		ratio = 1
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", name),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp
}
