// Package greeks computes Black-Scholes option sensitivities for single
// legs. Multi-leg strategies net per-leg results with direction sign; the
// calculator itself carries no strategy context.
package greeks

import (
	"math"

	"wheelhouse/internal/models"
)

const sqrt2Pi = 2.5066282746310002

// daysPerYear converts annualized theta to the per-day decay shown in the
// journal.
const daysPerYear = 365.0

// Compute returns delta and per-day theta for one option leg, scaled by
// 100 shares per contract and the contract count.
//
// T is time to expiry in years. At T <= 0 or sigma <= 0 the leg has no
// time value: delta collapses to intrinsic (call 1/0, put -1/0) and theta
// to zero, never NaN.
func Compute(spot, strike, T, r, sigma float64, isPut bool, contracts int) models.Greeks {
	scale := models.SharesPerContract * float64(contracts)

	if spot <= 0 || strike <= 0 {
		return models.Greeks{}
	}
	if T <= 0 || sigma <= 0 {
		return models.Greeks{Delta: intrinsicDelta(spot, strike, isPut) * scale}
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(spot/strike) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	var delta, theta float64
	if isPut {
		delta = normCDF(d1) - 1
		theta = -spot*normPDF(d1)*sigma/(2*sqrtT) + r*strike*math.Exp(-r*T)*normCDF(-d2)
	} else {
		delta = normCDF(d1)
		theta = -spot*normPDF(d1)*sigma/(2*sqrtT) - r*strike*math.Exp(-r*T)*normCDF(d2)
	}

	return models.Greeks{
		Delta: delta * scale,
		Theta: theta / daysPerYear * scale,
	}
}

// Net sums per-leg Greeks, negating short legs. shorts must be the same
// length as legs.
func Net(legs []models.Greeks, shorts []bool) models.Greeks {
	var net models.Greeks
	for i, g := range legs {
		if i < len(shorts) && shorts[i] {
			net.Delta -= g.Delta
			net.Theta -= g.Theta
		} else {
			net.Delta += g.Delta
			net.Theta += g.Theta
		}
	}
	return net
}

// intrinsicDelta is the expiry-limit delta of a single leg.
func intrinsicDelta(spot, strike float64, isPut bool) float64 {
	if isPut {
		if spot < strike {
			return -1
		}
		return 0
	}
	if spot > strike {
		return 1
	}
	return 0
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF is the standard normal cumulative distribution via erf.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
