// Package telemetry wires OpenTelemetry tracing for the demo.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Options configures Setup.
type Options struct {
	ServiceName string
	// Endpoint is an OTLP/HTTP URL. Empty disables export.
	Endpoint string
	// Extra span processors are attached to the provider whenever export is
	// enabled or at least one processor is given.
	Processors []sdktrace.SpanProcessor
}

// Setup returns the tracer provider for the process and a shutdown
// function that flushes pending spans.
//
// Tracing is opt-in: with no endpoint and no processors the provider is a
// noop and nothing is registered globally.
func Setup(ctx context.Context, opts Options) (trace.TracerProvider, func(context.Context) error, error) {
	nop := func(context.Context) error { return nil }
	if opts.Endpoint == "" && len(opts.Processors) == 0 {
		return noop.NewTracerProvider(), nop, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
		),
	)
	if err != nil {
		return nil, nop, err
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}
	if opts.Endpoint != "" {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(opts.Endpoint),
		)
		if err != nil {
			return nil, nop, err
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	for _, p := range opts.Processors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(p))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp, tp.Shutdown, nil
}
