// Package trace sets up OpenTelemetry span export for backend calls.
package trace

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"carmanager/internal/config"
)

// InstrumentationName is the tracer name used for /car client spans.
const InstrumentationName = "carmanager/carapi"

// Provider exports spans to an OTLP/HTTP endpoint.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// NewProvider creates a Provider if cfg.Endpoint is set.
// Returns nil if endpoint not configured (disabled); a nil *Provider is safe to use.
func NewProvider(ctx context.Context, cfg config.TraceConfig) (*Provider, error) {
	if cfg.Endpoint == "" {
		return nil, nil // Disabled
	}

	opts, err := exporterOptions(cfg)
	if err != nil {
		return nil, err
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "carmanager"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	return &Provider{
		provider: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		),
	}, nil
}

// exporterOptions accepts either host:port or a URL such as
// http://collector:4318, the form OTEL_EXPORTER_OTLP_ENDPOINT uses. A URL
// without a path gets the standard /v1/traces; its scheme decides TLS.
func exporterOptions(cfg config.TraceConfig) ([]otlptracehttp.Option, error) {
	if !strings.Contains(cfg.Endpoint, "://") {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return opts, nil
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("trace endpoint: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("trace endpoint %q: missing host", cfg.Endpoint)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = tracesPath
	}
	return []otlptracehttp.Option{otlptracehttp.WithEndpointURL(u.String())}, nil
}

const tracesPath = "/v1/traces"

// TracerProvider returns the SDK provider, or a no-op provider when disabled.
func (p *Provider) TracerProvider() oteltrace.TracerProvider {
	if p == nil || p.provider == nil {
		return noop.NewTracerProvider()
	}
	return p.provider
}

// Shutdown flushes and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
