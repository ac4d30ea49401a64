package metrics_service

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"fileicon/internal/constants"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Setup initialises OpenTelemetry tracing and metrics for the given service.
//
// Telemetry is opt-in: when FILEICON_OTEL_ENDPOINT is empty or
// FILEICON_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and no global providers are registered.
//
// The returned shutdown function flushes pending spans and metrics and should
// be deferred by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv("FILEICON_OTEL_ENABLED"), "false") {
		return noop, nil
	}

	endpoint := os.Getenv("FILEICON_OTEL_ENDPOINT")
	if endpoint == "" {
		return noop, nil
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func(ctx context.Context) error {
		traceErr := tp.Shutdown(ctx)
		metricErr := mp.Shutdown(ctx)
		if traceErr != nil {
			return traceErr
		}
		return metricErr
	}, nil
}

var (
	instrumentsOnce sync.Once
	extractCalls    metric.Int64Counter
	extractDuration metric.Float64Histogram
)

func instruments() (metric.Int64Counter, metric.Float64Histogram) {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(constants.SERVICE_NAME)

		var err error
		extractCalls, err = meter.Int64Counter("fileicon.extract.calls",
			metric.WithDescription("Number of icon extraction calls, by outcome"),
		)
		if err != nil {
			extractCalls = nil
		}
		extractDuration, err = meter.Float64Histogram("fileicon.extract.duration",
			metric.WithDescription("Icon extraction latency"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			extractDuration = nil
		}
	})
	return extractCalls, extractDuration
}

// RecordExtract emits the call count and latency for one extraction with its
// outcome. Emissions are one-way, failures to record are ignored.
func RecordExtract(ctx context.Context, outcome string, duration time.Duration) {
	calls, durations := instruments()
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if calls != nil {
		calls.Add(ctx, 1, attrs)
	}
	if durations != nil {
		durations.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	}
}

// StartSpan starts a span on the service tracer. With no provider registered
// this is a no-op span.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(constants.SERVICE_NAME).Start(ctx, name)
}
