package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wheelhouse/internal/performance"
	"wheelhouse/internal/resilience"
	"wheelhouse/pkg/utils"
)

// DefaultTTL is how long a cached quote stays fresh.
const DefaultTTL = 5 * time.Minute

// Cache is a read-through spot/IV cache. Entries are last-writer-wins;
// a batch refresh before classifying many positions keeps the classifier
// itself free of network concerns.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Quote

	ttl      time.Duration
	provider QuoteProvider
	limiter  *performance.RateLimiter
	breaker  *resilience.CircuitBreaker
	log      zerolog.Logger
}

// NewCache creates a cache over provider. A zero ttl uses DefaultTTL.
func NewCache(provider QuoteProvider, ttl time.Duration, logger zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries:  make(map[string]Quote),
		ttl:      ttl,
		provider: provider,
		limiter:  performance.NewRateLimiter(20, 5),
		breaker:  resilience.NewCircuitBreaker("quotes", resilience.DefaultCircuitBreakerConfig()),
		log:      logger.With().Str("component", "marketdata").Logger(),
	}
}

// Lookup returns the cached spot and IV for a ticker as nullable values,
// the shape the risk classifier consumes. A missing or expired entry
// returns nils, which routes the classifier onto its fallbacks.
func (c *Cache) Lookup(ticker string) (spot, iv *float64) {
	c.mu.RLock()
	q, ok := c.entries[ticker]
	c.mu.RUnlock()

	if !ok || time.Since(q.AsOf) > c.ttl {
		return nil, nil
	}

	s := q.Spot
	spot = &s
	if q.IV > 0 {
		v := q.IV
		iv = &v
	}
	return spot, iv
}

// Put stores a quote directly, stamping it fresh if AsOf is zero.
func (c *Cache) Put(q Quote) {
	if q.AsOf.IsZero() {
		q.AsOf = time.Now()
	}
	c.mu.Lock()
	c.entries[q.Ticker] = q
	c.mu.Unlock()
}

// Refresh pulls one ticker through the provider, retrying with backoff.
// The stale entry survives a failed refresh.
func (c *Cache) Refresh(ctx context.Context, ticker string) error {
	if c.provider == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var q Quote
	err := c.breaker.Do(func() error {
		var rerr error
		q, rerr = utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() (Quote, error) {
			return c.provider.Quote(ctx, ticker)
		})
		return rerr
	})
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("quote refresh failed")
		return err
	}

	q.Ticker = ticker
	c.Put(q)
	return nil
}

// RefreshAll refreshes every ticker, carrying on past individual
// failures. It returns the number of tickers refreshed.
func (c *Cache) RefreshAll(ctx context.Context, tickers []string) int {
	refreshed := 0
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			break
		}
		if err := c.Refresh(ctx, ticker); err == nil {
			refreshed++
		}
	}
	return refreshed
}
