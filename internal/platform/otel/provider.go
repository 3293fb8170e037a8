// Package otel wires opt-in OpenTelemetry tracing for groundbreak binaries.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Setup registers a global tracer provider for serviceName that exports
// spans over OTLP/HTTP, returning a shutdown function that flushes pending
// spans. Callers should defer the shutdown.
//
// Tracing stays off unless GROUNDBREAK_OTEL_ENDPOINT is set, and setting
// GROUNDBREAK_OTEL_ENABLED to "false" forces it off even then; in both
// cases Setup returns a no-op shutdown and registers nothing.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	endpoint, ok := exportEndpoint()
	if !ok {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}

// exportEndpoint reports the OTLP endpoint when tracing is enabled.
func exportEndpoint() (string, bool) {
	if strings.EqualFold(os.Getenv("GROUNDBREAK_OTEL_ENABLED"), "false") {
		return "", false
	}
	endpoint := os.Getenv("GROUNDBREAK_OTEL_ENDPOINT")
	return endpoint, endpoint != ""
}
