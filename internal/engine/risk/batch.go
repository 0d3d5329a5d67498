package risk

import (
	"context"
	"sync"
	"time"

	"wheelhouse/internal/models"
	"wheelhouse/internal/performance"
)

// QuoteFunc supplies the nullable spot price and live IV for a ticker.
// Both nil values are valid and route the classifier onto its fallbacks.
type QuoteFunc func(ticker string) (spot, iv *float64)

// ClassifyAll assesses every position concurrently on the pool and
// returns assessments in input order.
//
// Every assessment is computed into its own slot and never updated in
// place, so a caller cancelling ctx mid-refresh gets sentinel unknown
// entries for the abandoned positions and intact results for the rest.
func (c *Classifier) ClassifyAll(ctx context.Context, pool *performance.WorkerPool, positions []models.Position, quotes QuoteFunc, holdings map[string]*models.Holding, now time.Time) []models.RiskAssessment {
	results := make([]models.RiskAssessment, len(positions))
	var wg sync.WaitGroup

	for i := range positions {
		i := i
		p := &positions[i]

		run := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				results[i] = models.RiskAssessment{
					Ticker: p.Ticker,
					Tier:   models.TierUnknown,
					Status: StatusUnknown,
				}
				return
			}

			var spot, iv *float64
			if quotes != nil {
				spot, iv = quotes(p.Ticker)
			}
			results[i] = c.Classify(p, spot, iv, holdings[p.Ticker], now)
		}

		wg.Add(1)
		if pool == nil || !pool.Submit(run) {
			// No pool, or queue full: run inline rather than dropping
			// the position.
			run()
		}
	}

	wg.Wait()
	return results
}
