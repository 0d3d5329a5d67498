// Package marketdata supplies spot prices and implied volatility to the
// risk engine through a read-through TTL cache. Live transport is the
// surrounding application's concern; this package only defines the
// provider boundary and the cache in front of it.
package marketdata

import (
	"context"
	"time"
)

// Quote is one ticker's market snapshot. IV is a fraction (0.50 = 50%)
// and may be zero when the provider has no options data for the ticker.
type Quote struct {
	Ticker string
	Spot   float64
	IV     float64
	AsOf   time.Time
}

// QuoteProvider fetches quotes. Implementations live in the surrounding
// application (a broker stream, a file, a fixture); the engine only pulls
// through the cache.
type QuoteProvider interface {
	Quote(ctx context.Context, ticker string) (Quote, error)
}

// QuoteProviderFunc adapts a function to the QuoteProvider interface.
type QuoteProviderFunc func(ctx context.Context, ticker string) (Quote, error)

// Quote calls f.
func (f QuoteProviderFunc) Quote(ctx context.Context, ticker string) (Quote, error) {
	return f(ctx, ticker)
}
