// Package otel sets up tracing for the consent commands and hands out the
// tracers used by the resolver and the site injector.
package otel

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// EnvEndpoint names the OTLP/HTTP collector endpoint.
	EnvEndpoint = "DOCSCONSENT_OTEL_ENDPOINT"
	// EnvEnabled can force tracing off even when an endpoint is set.
	EnvEnabled = "DOCSCONSENT_OTEL_ENABLED"
	// EnvSampleRatio is the fraction of root traces kept, between 0 and 1.
	EnvSampleRatio = "DOCSCONSENT_OTEL_SAMPLE_RATIO"

	instrumentationPrefix = "github.com/louisbranch/docsconsent/"
)

// Tracer returns the tracer for one consent component, e.g. "consent" for
// decision spans or "inject" for site rewrites.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentationPrefix + strings.Trim(component, "/"))
}

// Decision labels a span with the consent decision it recorded.
func Decision(name string) attribute.KeyValue {
	return attribute.String("consent.decision", name)
}

// SampleRatio reads EnvSampleRatio. Empty means keep every trace.
func SampleRatio() (float64, error) {
	raw := strings.TrimSpace(os.Getenv(EnvSampleRatio))
	if raw == "" {
		return 1, nil
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return 0, fmt.Errorf("%s must be a number between 0 and 1, got %q", EnvSampleRatio, raw)
	}
	return ratio, nil
}

// Sampler keeps a parent's decision and samples new traces at ratio.
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when DOCSCONSENT_OTEL_ENDPOINT is empty or
// DOCSCONSENT_OTEL_ENABLED is "false", Setup returns a no-op shutdown
// function and no global provider is registered. Consent spans then go to
// the default no-op tracer.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnvEnabled), "false") {
		return noop, nil
	}

	endpoint := strings.TrimSpace(os.Getenv(EnvEndpoint))
	if endpoint == "" {
		return noop, nil
	}
	ratio, err := SampleRatio()
	if err != nil {
		return noop, err
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			attribute.String("docsconsent.component", serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(ratio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
