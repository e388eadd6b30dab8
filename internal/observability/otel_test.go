package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tbourn/spamzero-backend/internal/config"
)

func preserveOTelGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func enabled(name string, insecure bool) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    insecure,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

func TestSetupOTel_Disabled_NoOp(t *testing.T) {
	preserveOTelGlobals(t)
	prev := otel.GetTracerProvider()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "v0")
	if err != nil || shutdown == nil {
		t.Fatalf("shutdown=%v err=%v", shutdown, err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
	if otel.GetTracerProvider() != prev {
		t.Fatalf("disabled setup replaced the tracer provider")
	}
}

func TestSetupOTel_Enabled_InsecureAndTLS(t *testing.T) {
	for _, insecure := range []bool{true, false} {
		preserveOTelGlobals(t)

		shutdown, err := SetupOTel(context.Background(), enabled("spamzero-test", insecure), "v1.2.3")
		if err != nil {
			t.Fatalf("insecure=%v: %v", insecure, err)
		}
		if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
			t.Fatalf("insecure=%v: expected *sdktrace.TracerProvider", insecure)
		}

		// Round-trip a span context through the propagator.
		ctx, span := otel.Tracer("test").Start(context.Background(), "span")
		carrier := propagation.MapCarrier{}
		otel.GetTextMapPropagator().Inject(ctx, carrier)
		span.End()
		if !strings.HasPrefix(carrier.Get("traceparent"), "00-") {
			t.Fatalf("traceparent not injected: %v", carrier)
		}

		ct, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		_ = shutdown(ct)
		cancel()
	}
}

func TestSetupOTel_SeamErrors_LeaveGlobalsIntact(t *testing.T) {
	preserveOTelGlobals(t)
	origExp, origRes := newOTLPExporterFn, newServiceResourceFn
	t.Cleanup(func() { newOTLPExporterFn, newServiceResourceFn = origExp, origRes })

	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()

	newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("boom-exporter")
	}
	if _, err := SetupOTel(context.Background(), enabled("svc", true), "v0"); err == nil {
		t.Fatalf("expected exporter error")
	}

	newOTLPExporterFn = origExp
	newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, errors.New("boom-resource")
	}
	if _, err := SetupOTel(context.Background(), enabled("svc", true), "v0"); err == nil {
		t.Fatalf("expected resource error")
	}

	if otel.GetTracerProvider() != prevTP || otel.GetTextMapPropagator() != prevProp {
		t.Fatalf("globals changed on failure")
	}
}

func TestSetupOTel_DefaultServiceName(t *testing.T) {
	preserveOTelGlobals(t)
	orig := newServiceResourceFn
	t.Cleanup(func() { newServiceResourceFn = orig })

	var got string
	newServiceResourceFn = func(ctx context.Context, name, version string) (*resource.Resource, error) {
		got = name
		return orig(ctx, name, version)
	}
	shutdown, err := SetupOTel(context.Background(), enabled("", true), "v0")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	_ = shutdown(context.Background())
	if got != DefaultServiceName {
		t.Fatalf("service name = %q", got)
	}
}

func TestSampler_Clamps(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{-1, "AlwaysOffSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
		{1, "AlwaysOnSampler"},
		{7, "AlwaysOnSampler"},
	}
	for _, tc := range cases {
		if d := Sampler(tc.ratio).Description(); !strings.Contains(d, tc.want) {
			t.Fatalf("Sampler(%v) = %q, want it to contain %q", tc.ratio, d, tc.want)
		}
	}
}
