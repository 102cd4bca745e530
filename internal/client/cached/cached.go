package cached

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"exampleapi/internal/cache"
	"exampleapi/internal/client"
)

const keyPrefix = "external:resource:"

// Client is a read-through cache in front of another ExternalServiceClient.
// Only present results are cached; an absent fetch is retried upstream next time.
type Client struct {
	next   client.ExternalServiceClient
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps next with c. A non-positive ttl falls back to one minute.
func New(next client.ExternalServiceClient, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Client {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Client{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("component", "external_cache"),
	}
}

var _ client.ExternalServiceClient = (*Client)(nil)

func (c *Client) FetchExternalData(ctx context.Context, resourceID string) (string, bool) {
	key := keyPrefix + resourceID

	v, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		return v, true
	case !errors.Is(err, cache.ErrMiss):
		c.logger.Warn("cache get failed", "key", key, "err", err)
	}

	v, ok := c.next.FetchExternalData(ctx, resourceID)
	if !ok {
		return "", false
	}
	if err := c.cache.Set(ctx, key, v, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "err", err)
	}
	return v, true
}

func (c *Client) NotifyExternalService(ctx context.Context, eventType, payload string) {
	c.next.NotifyExternalService(ctx, eventType, payload)
}
