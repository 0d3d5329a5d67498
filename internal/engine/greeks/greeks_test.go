package greeks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"wheelhouse/internal/models"
)

func TestComputeATMDelta(t *testing.T) {
	// An at-the-money call has delta near 0.5; the matching put near -0.5.
	call := Compute(100, 100, 0.25, 0.05, 0.3, false, 1)
	put := Compute(100, 100, 0.25, 0.05, 0.3, true, 1)

	assert.InDelta(t, 55, call.Delta, 5) // drift pushes slightly past 0.5
	assert.InDelta(t, -45, put.Delta, 5)
	// Put-call parity on delta: call - put = 1 per share.
	assert.InDelta(t, 100, call.Delta-put.Delta, 1e-9)
}

func TestComputeThetaIsDecay(t *testing.T) {
	call := Compute(100, 100, 0.25, 0.05, 0.3, false, 1)
	put := Compute(100, 100, 0.25, 0.05, 0.3, true, 1)

	// Long ATM options decay: per-day theta is negative.
	assert.Less(t, call.Theta, 0.0)
	assert.Less(t, put.Theta, 0.0)
}

func TestComputeExpiryNeverNaN(t *testing.T) {
	cases := []struct {
		name  string
		T     float64
		sigma float64
	}{
		{"zero time", 0, 0.3},
		{"negative time", -0.1, 0.3},
		{"zero vol", 0.25, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, isPut := range []bool{true, false} {
				g := Compute(100, 90, tc.T, 0.05, tc.sigma, isPut, 2)
				assert.False(t, math.IsNaN(g.Delta) || math.IsInf(g.Delta, 0))
				assert.False(t, math.IsNaN(g.Theta) || math.IsInf(g.Theta, 0))
				assert.Zero(t, g.Theta)
			}
		})
	}
}

func TestComputeIntrinsicDeltaAtExpiry(t *testing.T) {
	// ITM call -> +1 per share, OTM call -> 0.
	assert.Equal(t, 100.0, Compute(100, 90, 0, 0.05, 0.3, false, 1).Delta)
	assert.Equal(t, 0.0, Compute(80, 90, 0, 0.05, 0.3, false, 1).Delta)

	// ITM put -> -1 per share, OTM put -> 0.
	assert.Equal(t, -100.0, Compute(80, 90, 0, 0.05, 0.3, true, 1).Delta)
	assert.Equal(t, 0.0, Compute(100, 90, 0, 0.05, 0.3, true, 1).Delta)
}

func TestComputeContractScaling(t *testing.T) {
	one := Compute(100, 95, 0.5, 0.05, 0.4, true, 1)
	five := Compute(100, 95, 0.5, 0.05, 0.4, true, 5)

	assert.InDelta(t, one.Delta*5, five.Delta, 1e-9)
	assert.InDelta(t, one.Theta*5, five.Theta, 1e-9)
}

func TestNetShortLegNegates(t *testing.T) {
	long := models.Greeks{Delta: 50, Theta: -3}
	short := models.Greeks{Delta: 30, Theta: -2}

	net := Net([]models.Greeks{long, short}, []bool{false, true})
	assert.InDelta(t, 20, net.Delta, 1e-9)
	assert.InDelta(t, -1, net.Theta, 1e-9)
}
