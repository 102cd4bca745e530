package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"exampleapi/internal/client"
)

var (
	ErrNotFound         = errors.New("external resource not found")
	ErrEmptyBody        = errors.New("external resource has no body")
	ErrUnexpectedStatus = errors.New("unexpected status from external service")
)

// EventTypeHeader carries the event type on notifications; the body is the raw payload.
const EventTypeHeader = "X-Event-Type"

// Client is the REST implementation of client.ExternalServiceClient.
// It is safe for concurrent use; all calls share one pooled *http.Client.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records every call on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client for the service rooted at baseURL.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    NewHTTPClient(DefaultTransportConfig()),
		logger:  logger.With("component", "external_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ client.ExternalServiceClient = (*Client)(nil)

// Fetch issues GET <base>/resources/<resourceID> and returns the body verbatim.
// Unlike FetchExternalData it reports why the read failed.
func (c *Client) Fetch(ctx context.Context, resourceID string) (string, error) {
	u := c.baseURL + "/resources/" + url.PathEscape(resourceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("get resource: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return "", ErrEmptyBody
	}
	return string(body), nil
}

// Notify issues POST <base>/events with payload as the request body.
func (c *Client) Notify(ctx context.Context, eventType, payload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(EventTypeHeader, eventType)
	if json.Valid([]byte(payload)) {
		req.Header.Set("Content-Type", "application/json")
	} else {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// FetchExternalData collapses every failure of Fetch into an absent result.
// Callers cannot tell "not found" from "unreachable"; use Fetch when that matters.
func (c *Client) FetchExternalData(ctx context.Context, resourceID string) (string, bool) {
	body, err := c.Fetch(ctx, resourceID)
	c.metrics.observe("fetch", err)
	if err != nil {
		c.logger.Debug("external fetch failed", "resource_id", resourceID, "err", err)
		return "", false
	}
	return body, true
}

// NotifyExternalService logs and swallows any failure of Notify.
func (c *Client) NotifyExternalService(ctx context.Context, eventType, payload string) {
	err := c.Notify(ctx, eventType, payload)
	c.metrics.observe("notify", err)
	if err != nil {
		c.logger.Error("failed to notify external service", "event_type", eventType, "err", err)
	}
}
