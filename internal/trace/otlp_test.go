package trace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmanager/internal/config"
)

func TestNewProvider_DisabledWithoutEndpoint(t *testing.T) {
	p, err := NewProvider(context.Background(), config.TraceConfig{})
	require.NoError(t, err)
	assert.Nil(t, p)

	// A nil provider still hands out a working (no-op) tracer.
	_, span := p.TracerProvider().Tracer(InstrumentationName).Start(context.Background(), "car.list")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_EnabledWithEndpoint(t *testing.T) {
	p, err := NewProvider(context.Background(), config.TraceConfig{
		Endpoint: "127.0.0.1:4318",
		Insecure: true,
	})
	require.NoError(t, err)
	require.NotNil(t, p)

	_, span := p.TracerProvider().Tracer(InstrumentationName).Start(context.Background(), "car.list")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Nothing listens on the endpoint; shutdown must still return promptly.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Shutdown(ctx)
}

// collector records the paths of OTLP export requests.
func collector(t *testing.T) (*httptest.Server, <-chan string) {
	t.Helper()
	paths := make(chan string, 8)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	return ts, paths
}

func exportOneSpan(t *testing.T, cfg config.TraceConfig) {
	t.Helper()
	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, p)

	_, span := p.TracerProvider().Tracer(InstrumentationName).Start(context.Background(), "car.list")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
}

func TestNewProvider_AcceptsEndpointURL(t *testing.T) {
	ts, paths := collector(t)

	exportOneSpan(t, config.TraceConfig{Endpoint: ts.URL})

	select {
	case got := <-paths:
		assert.Equal(t, "/v1/traces", got)
	default:
		t.Fatal("no export request reached the collector")
	}
}

func TestNewProvider_AcceptsHostPort(t *testing.T) {
	ts, paths := collector(t)

	exportOneSpan(t, config.TraceConfig{
		Endpoint: strings.TrimPrefix(ts.URL, "http://"),
		Insecure: true,
	})

	select {
	case got := <-paths:
		assert.Equal(t, "/v1/traces", got)
	default:
		t.Fatal("no export request reached the collector")
	}
}

func TestNewProvider_RejectsURLWithoutHost(t *testing.T) {
	_, err := NewProvider(context.Background(), config.TraceConfig{Endpoint: "http://"})
	assert.Error(t, err)
}
