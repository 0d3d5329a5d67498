package risk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wheelhouse/internal/models"
	"wheelhouse/internal/performance"
)

func testPositions(n int) []models.Position {
	now := time.Now()
	positions := make([]models.Position, n)
	for i := range positions {
		positions[i] = models.Position{
			ID:        "b-1",
			Ticker:    "XYZ",
			Strategy:  models.ShortPut,
			Strike:    50,
			Premium:   1,
			Contracts: 1,
			Expiry:    now.AddDate(0, 0, 30+i),
		}
	}
	return positions
}

func TestClassifyAllPreservesOrder(t *testing.T) {
	c := newTestClassifier(21)
	pool := performance.NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	positions := testPositions(25)
	quotes := func(string) (*float64, *float64) { return ptr(55), ptr(0.4) }

	results := c.ClassifyAll(context.Background(), pool, positions, quotes, nil, time.Now())

	assert.Len(t, results, len(positions))
	for i, a := range results {
		assert.Equal(t, "XYZ", a.Ticker, "slot %d", i)
		assert.True(t, a.ProbabilityKnown, "slot %d", i)
	}
}

func TestClassifyAllWithoutPoolRunsInline(t *testing.T) {
	c := newTestClassifier(22)

	results := c.ClassifyAll(context.Background(), nil, testPositions(3), nil, nil, time.Now())

	assert.Len(t, results, 3)
	for _, a := range results {
		// No quote source: everything lands on the DTE fallback.
		assert.False(t, a.ProbabilityKnown)
	}
}

func TestClassifyAllCancelledContext(t *testing.T) {
	c := newTestClassifier(23)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := c.ClassifyAll(ctx, nil, testPositions(4), nil, nil, time.Now())

	// Abandoned positions get the sentinel, never a half-written result.
	assert.Len(t, results, 4)
	for _, a := range results {
		assert.Equal(t, models.TierUnknown, a.Tier)
		assert.Equal(t, StatusUnknown, a.Status)
	}
}
