// Package client fetches upstream collections and submits user updates. It
// performs no retries and mutates no shared state; callers own the results.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "octofit-client/1.0"
	maxBodyBytes     = 16 << 20

	headerRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"
)

// Client talks to the upstream REST API.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	log       logger.Logger
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("client")
	return c
}

// Fetch retrieves the collection at endpoint. A bare array body is used as
// is, a paginated envelope yields its results, any other JSON shape yields
// an empty collection.
func (c *Client) Fetch(ctx context.Context, endpoint string) (record.Collection, error) {
	status, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resource := resourceOf(endpoint)
	if status < 200 || status > 299 {
		return nil, c.fail(ctx, resource, statusError(http.MethodGet, endpoint, status))
	}
	items, err := record.Normalize(body)
	if err != nil {
		return nil, c.fail(ctx, resource, parseError(http.MethodGet, endpoint, status, err))
	}
	metrics.RecordFetch(resource, metrics.OutcomeSuccess)
	metrics.UpdateCollectionSize(resource, len(items))
	c.log.Debug(ctx, "collection fetched", logger.String("resource", resource), logger.Int("records", len(items)))
	return items, nil
}

// Patch sends body as a partial update to endpoint and returns the updated
// record. A non-2xx answer with a JSON body is a validation failure whose
// message is that body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (record.Record, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode patch body: %w", err)
	}
	status, resp, err := c.do(ctx, http.MethodPatch, endpoint, payload)
	if err != nil {
		return nil, err
	}
	resource := resourceOf(endpoint)
	if status < 200 || status > 299 {
		if compact, ok := compactJSON(resp); ok {
			return nil, c.fail(ctx, resource, validationError(http.MethodPatch, endpoint, status, compact))
		}
		return nil, c.fail(ctx, resource, statusError(http.MethodPatch, endpoint, status))
	}
	rec, err := record.Decode(resp)
	if err != nil {
		return nil, c.fail(ctx, resource, parseError(http.MethodPatch, endpoint, status, err))
	}
	metrics.RecordFetch(resource, metrics.OutcomeSuccess)
	return rec, nil
}

// do performs one request and reads the whole body. Only transport
// failures are reported here.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) (int, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, c.fail(ctx, resourceOf(endpoint), transportError(method, endpoint, err))
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resource := resourceOf(endpoint)
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RecordFetchLatency(resource, method, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return 0, nil, c.fail(ctx, resource, transportError(method, endpoint, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, c.fail(ctx, resource, transportError(method, endpoint, err))
	}
	c.log.Debug(ctx, "request completed",
		logger.String("method", method),
		logger.String("url", endpoint),
		logger.String("request_id", reqID),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)
	return resp.StatusCode, body, nil
}

func (c *Client) fail(ctx context.Context, resource string, e *Error) error {
	metrics.RecordFetch(resource, metrics.OutcomeFailure)
	metrics.RecordFetchError(resource, e.Kind.String())
	c.log.Warn(ctx, "request failed",
		logger.String("method", e.Method),
		logger.String("url", e.URL),
		logger.String("kind", e.Kind.String()),
		logger.Int("status", e.Status),
		logger.String("message", e.Message),
	)
	return e
}

func compactJSON(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", false
	}
	return buf.String(), true
}
