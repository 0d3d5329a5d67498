package risk

import "wheelhouse/internal/models"

// band holds the tier cutoffs, in probability percent, for one DTE bucket.
// A probability below Safe is safe, below Watch is watch, below Caution is
// caution, anything at or above Caution is danger.
type band struct {
	Safe    float64
	Watch   float64
	Caution float64
}

// DTE bucket boundaries. Long-dated options tolerate far higher ITM
// probability before the number is actionable, so the LEAPS band is much
// more permissive than the short-dated one.
const (
	leapsDTE    = 365
	midTermDTE  = 30
	creditOTMPP = 10.0 // relaxation for credit spreads currently OTM
	otmCushion  = 0.005
)

var (
	leapsBand     = band{Safe: 60, Watch: 70, Caution: 80}
	midTermBand   = band{Safe: 40, Watch: 50, Caution: 60}
	shortTermBand = band{Safe: 30, Watch: 40, Caution: 50}
)

// bandFor selects the threshold band for a days-to-expiry value.
func bandFor(dte int) band {
	switch {
	case dte >= leapsDTE:
		return leapsBand
	case dte >= midTermDTE:
		return midTermBand
	default:
		return shortTermBand
	}
}

// relax shifts every cutoff up by pp percentage points.
func (b band) relax(pp float64) band {
	return band{Safe: b.Safe + pp, Watch: b.Watch + pp, Caution: b.Caution + pp}
}

// tierFor maps a probability onto the band's tiers. Monotonic by
// construction: a higher probability never yields a lower tier.
func tierFor(prob float64, b band) models.RiskTier {
	switch {
	case prob < b.Safe:
		return models.TierSafe
	case prob < b.Watch:
		return models.TierWatch
	case prob < b.Caution:
		return models.TierCaution
	default:
		return models.TierDanger
	}
}

// currentlyOTM reports whether the risk leg is out-of-the-money by at
// least the cushion fraction at the current spot.
func currentlyOTM(spot, strike float64, isPut bool) bool {
	if isPut {
		return spot >= strike*(1+otmCushion)
	}
	return spot <= strike*(1-otmCushion)
}
