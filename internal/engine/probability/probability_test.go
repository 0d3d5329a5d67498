package probability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func newTestEstimator(seed uint64) *Estimator {
	return New(WithSource(rand.NewSource(seed)))
}

func TestITMProbabilityBounds(t *testing.T) {
	e := newTestEstimator(1)

	cases := []struct {
		name   string
		spot   float64
		strike float64
		dte    int
		vol    float64
		isPut  bool
	}{
		{"atm put", 100, 100, 30, 0.5, true},
		{"atm call", 100, 100, 30, 0.5, false},
		{"deep itm put", 50, 100, 10, 0.3, true},
		{"deep otm call", 50, 100, 10, 0.3, false},
		{"leaps", 100, 95, 400, 0.8, true},
		{"zero dte", 100, 100, 0, 0.4, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := e.ITMProbability(tc.spot, tc.strike, tc.dte, tc.vol, tc.isPut)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 100.0)
		})
	}
}

func TestITMProbabilityLimits(t *testing.T) {
	e := newTestEstimator(2)

	// Spot far above strike: a put is essentially dead, a call essentially
	// certain.
	put := e.ITMProbability(500, 50, 20, 0.3, true)
	call := e.ITMProbability(500, 50, 20, 0.3, false)
	assert.Less(t, put, 1.0)
	assert.Greater(t, call, 99.0)

	// Symmetric case far below strike.
	put = e.ITMProbability(10, 100, 20, 0.3, true)
	call = e.ITMProbability(10, 100, 20, 0.3, false)
	assert.Greater(t, put, 99.0)
	assert.Less(t, call, 1.0)
}

func TestITMProbabilityATMNearHalf(t *testing.T) {
	e := newTestEstimator(3)

	// An at-the-money put over a short horizon should land near 50%.
	// 1000 paths give a standard error around 1.6 points, so allow ±6.
	p := e.ITMProbability(100, 100, 7, 0.4, true)
	assert.InDelta(t, 50.0, p, 6.0)
}

func TestITMProbabilityZeroVol(t *testing.T) {
	e := newTestEstimator(4)

	// Zero vol collapses to the deterministic forward: spot grows at the
	// risk-free rate, so a strike below spot is never reached by a put.
	p := e.ITMProbability(100, 95, 30, 0, true)
	assert.Equal(t, 0.0, p)

	p = e.ITMProbability(100, 95, 30, 0, false)
	assert.Equal(t, 100.0, p)
}

func TestITMProbabilityDegenerateInputs(t *testing.T) {
	e := newTestEstimator(5)

	assert.Equal(t, 0.0, e.ITMProbability(0, 100, 30, 0.5, true))
	assert.Equal(t, 0.0, e.ITMProbability(100, 0, 30, 0.5, true))
	// Negative vol is clamped, never NaN.
	p := e.ITMProbability(100, 100, 30, -1, true)
	assert.False(t, p != p, "probability must not be NaN")
}

func TestITMProbabilityConcurrentEstimates(t *testing.T) {
	// One estimator with a seeded source shared across goroutines, the
	// shape a batch risk refresh produces. Exercised under -race.
	e := newTestEstimator(7)

	const workers = 8
	results := make([]float64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = e.ITMProbability(100, 95, 30, 0.5, true)
		}()
	}
	wg.Wait()

	for i, p := range results {
		assert.GreaterOrEqualf(t, p, 0.0, "worker %d", i)
		assert.LessOrEqualf(t, p, 100.0, "worker %d", i)
	}
}
