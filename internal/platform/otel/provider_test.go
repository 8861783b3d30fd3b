package otel_test

import (
	"context"
	"strings"
	"testing"

	gootel "go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/louisbranch/docsconsent/internal/platform/otel"
)

func TestSetupIsNoopUnlessEndpointConfigured(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  string
	}{
		{name: "empty endpoint", endpoint: "", enabled: ""},
		{name: "blank endpoint", endpoint: "   ", enabled: ""},
		{name: "explicitly disabled", endpoint: "http://localhost:4318", enabled: "FALSE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(otel.EnvEndpoint, tt.endpoint)
			t.Setenv(otel.EnvEnabled, tt.enabled)

			shutdown, err := otel.Setup(context.Background(), "docsite")
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := shutdown(ctx); err != nil {
				t.Fatalf("noop shutdown error = %v", err)
			}
		})
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address: nothing is exported before shutdown.
	t.Setenv(otel.EnvEndpoint, "http://192.0.2.1:4318")
	t.Setenv(otel.EnvEnabled, "")

	shutdown, err := otel.Setup(context.Background(), "consent-inject")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}
}

func TestSampleRatio(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "", want: 1},
		{raw: "0.25", want: 0.25},
		{raw: " 0 ", want: 0},
		{raw: "1.5", wantErr: true},
		{raw: "-0.1", wantErr: true},
		{raw: "half", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv(otel.EnvSampleRatio, tt.raw)
			got, err := otel.SampleRatio()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SampleRatio() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SampleRatio() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("SampleRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSamplerDescription(t *testing.T) {
	tests := map[float64]string{
		1:    "ParentBased{root:AlwaysOnSampler",
		0:    "ParentBased{root:AlwaysOffSampler",
		0.25: "ParentBased{root:TraceIDRatioBased{0.25}",
	}
	for ratio, prefix := range tests {
		if got := otel.Sampler(ratio).Description(); !strings.HasPrefix(got, prefix) {
			t.Fatalf("Sampler(%v).Description() = %q, want prefix %q", ratio, got, prefix)
		}
	}
}

func TestSetupRejectsBadSampleRatio(t *testing.T) {
	t.Setenv(otel.EnvEndpoint, "http://192.0.2.1:4318")
	t.Setenv(otel.EnvEnabled, "")
	t.Setenv(otel.EnvSampleRatio, "2")

	if _, err := otel.Setup(context.Background(), "docsite"); err == nil {
		t.Fatal("expected sample ratio error")
	}
}

func TestTracerRecordsComponentScope(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	gootel.SetTracerProvider(provider)
	t.Cleanup(func() { gootel.SetTracerProvider(noop.NewTracerProvider()) })

	_, span := otel.Tracer("consent").Start(context.Background(), "consent.accepted")
	span.SetAttributes(otel.Decision("accepted"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if got := spans[0].InstrumentationScope().Name; got != "github.com/louisbranch/docsconsent/consent" {
		t.Fatalf("scope = %q", got)
	}
	if attrs := spans[0].Attributes(); len(attrs) != 1 || attrs[0].Value.AsString() != "accepted" {
		t.Fatalf("attributes = %v", attrs)
	}
}
