package daraja

import (
	"context"
	"sync"
	"time"

	"github.com/mkamau/daraja-gateway/internal/domain/auth"
	"github.com/mkamau/daraja-gateway/internal/infrastructure/observability"
)

// TokenFetcher obtains a fresh bearer token and its lifetime from the
// provider's identity endpoint.
type TokenFetcher interface {
	FetchToken(ctx context.Context) (string, time.Duration, error)
}

// TokenCache holds at most one bearer token and refreshes it when it is
// absent or about to expire. The mutex is held across the refresh, so at most
// one refresh is ever in flight and concurrent callers wait for its outcome.
type TokenCache struct {
	fetcher TokenFetcher
	margin  time.Duration
	metrics *observability.Metrics
	now     func() time.Time

	mu     sync.Mutex
	cached auth.Token
}

func NewTokenCache(fetcher TokenFetcher, margin time.Duration, metrics *observability.Metrics) *TokenCache {
	return &TokenCache{
		fetcher: fetcher,
		margin:  margin,
		metrics: metrics,
		now:     time.Now,
	}
}

// Token returns the cached token while it remains valid, otherwise refreshes.
func (c *TokenCache) Token(ctx context.Context) (auth.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached.Valid(c.now(), c.margin) {
		return c.cached, nil
	}

	// Discard before fetching so a failed refresh can never resurrect a
	// token past its claimed expiry.
	c.cached = auth.Token{}

	value, ttl, err := c.fetcher.FetchToken(ctx)
	if err != nil {
		c.metrics.TokenRefreshObserved(false)
		return auth.Token{}, &auth.AuthenticationError{Err: err}
	}

	c.cached = auth.Token{Value: value, ExpiresAt: c.now().Add(ttl)}
	c.metrics.TokenRefreshObserved(true)
	return c.cached, nil
}
