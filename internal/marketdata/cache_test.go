package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLookupFreshAndExpired(t *testing.T) {
	c := NewCache(nil, time.Minute, zerolog.Nop())

	c.Put(Quote{Ticker: "AAPL", Spot: 210.5, IV: 0.32})
	spot, iv := c.Lookup("AAPL")
	require.NotNil(t, spot)
	require.NotNil(t, iv)
	assert.Equal(t, 210.5, *spot)
	assert.Equal(t, 0.32, *iv)

	// A zero IV means the provider had none; only spot is served.
	c.Put(Quote{Ticker: "KO", Spot: 62.0})
	spot, iv = c.Lookup("KO")
	require.NotNil(t, spot)
	assert.Nil(t, iv)

	// Expired entries are as good as missing.
	c.Put(Quote{Ticker: "OLD", Spot: 10, AsOf: time.Now().Add(-2 * time.Minute)})
	spot, iv = c.Lookup("OLD")
	assert.Nil(t, spot)
	assert.Nil(t, iv)

	spot, iv = c.Lookup("NEVER")
	assert.Nil(t, spot)
	assert.Nil(t, iv)
}

func TestCacheRefreshAll(t *testing.T) {
	calls := 0
	provider := QuoteProviderFunc(func(_ context.Context, ticker string) (Quote, error) {
		calls++
		if ticker == "FAIL" {
			return Quote{}, errors.New("provider down")
		}
		return Quote{Spot: 100, IV: 0.4}, nil
	})

	c := NewCache(provider, time.Minute, zerolog.Nop())
	n := c.RefreshAll(context.Background(), []string{"AAPL", "FAIL", "KO"})

	// The failing ticker is skipped, not fatal.
	assert.Equal(t, 2, n)
	assert.Greater(t, calls, 2) // FAIL was retried

	spot, _ := c.Lookup("AAPL")
	require.NotNil(t, spot)
	spot, _ = c.Lookup("FAIL")
	assert.Nil(t, spot)
}

func TestCacheRefreshCancelled(t *testing.T) {
	provider := QuoteProviderFunc(func(_ context.Context, _ string) (Quote, error) {
		return Quote{Spot: 1}, nil
	})
	c := NewCache(provider, time.Minute, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := c.RefreshAll(ctx, []string{"A", "B"})
	assert.Zero(t, n)
}
