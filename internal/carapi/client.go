// Package carapi is the HTTP client for the remote /car resource.
package carapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"carmanager/internal/car"
	"carmanager/internal/jsonutil"
	"carmanager/internal/trace"
)

// RequestIDHeader carries a per-request id so backend logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s %s: status %d", e.Op, e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Options configures a Client. Zero values fall back to sane defaults.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	Headers        map[string]string
	Logger         *zap.Logger
	TracerProvider oteltrace.TracerProvider
	HTTPClient     *http.Client
}

// Client talks to GET/POST /car and PATCH/DELETE /car/{id}.
type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	logger     *zap.Logger
	tracer     oteltrace.Tracer
}

// NewClient creates a client for the backend rooted at opts.BaseURL.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		headers:    headers,
		httpClient: httpClient,
		logger:     logger.Named("carapi"),
		tracer:     tp.Tracer(trace.InstrumentationName),
	}
}

// List fetches every car record.
func (c *Client) List(ctx context.Context) ([]car.Record, error) {
	body, err := c.do(ctx, "list", http.MethodGet, "/car", "", nil)
	if err != nil {
		return nil, err
	}
	return jsonutil.UnmarshalArrayAllowEmpty[car.Record](body, "list cars: decode response")
}

// Create posts rec without its id; the backend assigns one.
func (c *Client) Create(ctx context.Context, rec car.Record) (car.Record, error) {
	rec.ID = ""
	body, err := c.do(ctx, "create", http.MethodPost, "/car", "", rec)
	if err != nil {
		return car.Record{}, err
	}
	return c.decodeRecord(body, rec, "create"), nil
}

// Update patches the record with the given id.
func (c *Client) Update(ctx context.Context, id string, rec car.Record) (car.Record, error) {
	if id == "" {
		return car.Record{}, errors.New("update car: empty id")
	}
	body, err := c.do(ctx, "update", http.MethodPatch, "/car/"+url.PathEscape(id), id, rec)
	if err != nil {
		return car.Record{}, err
	}
	rec.ID = id
	return c.decodeRecord(body, rec, "update"), nil
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("delete car: empty id")
	}
	_, err := c.do(ctx, "delete", http.MethodDelete, "/car/"+url.PathEscape(id), id, nil)
	return err
}

// decodeRecord decodes the record in a 2xx response. The change has already
// been applied, so an empty or unreadable body falls back to sent and is only logged.
func (c *Client) decodeRecord(body []byte, sent car.Record, op string) car.Record {
	out := sent
	if _, err := jsonutil.ReadOptional(bytes.NewReader(body), &out, op+" car: decode response"); err != nil {
		c.logger.Warn("unreadable response to a successful change",
			zap.String("op", op),
			zap.String("body", jsonutil.Snippet(body, 200)),
			zap.Error(err),
		)
		return sent
	}
	return out
}

// do performs one request inside a client span and returns the response body.
func (c *Client) do(ctx context.Context, op, method, path, id string, payload any) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "car."+op, oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	defer span.End()

	target := c.baseURL + path
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", target),
	)
	if id != "" {
		span.SetAttributes(attribute.String("car.id", id))
	}

	fail := func(err error) ([]byte, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fail(fmt.Errorf("%s car: marshal request: %w", op, err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fail(fmt.Errorf("%s car: create request: %w", op, err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fail(fmt.Errorf("%s car: %w", op, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Errorf("%s car: read response: %w", op, err))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	c.logger.Debug("request done",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(&APIError{
			Op:         op + " car",
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       jsonutil.Snippet(body, 200),
		})
	}
	return body, nil
}
