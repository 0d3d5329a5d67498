package chains

import (
	"math"

	"wheelhouse/internal/models"
)

// Breakeven computes the chain's break-even underlying price from its
// current member and cumulative net premium in dollars.
//
// Every strategy kind has its own formula; there is no single expression.
// A strategy missing a field its formula needs (a spread without both
// strikes, a buy/write without a cost basis) yields nil, never zero.
func Breakeven(p *models.Position, netPremium float64) *float64 {
	if p == nil || p.Contracts <= 0 {
		return nil
	}

	// Per-share magnitude of the chain's cumulative premium.
	perShare := math.Abs(netPremium) / (models.SharesPerContract * float64(p.Contracts))

	switch p.Strategy {
	case models.ShortPut:
		return strikeBased(p.Strike, -perShare)
	case models.ShortCall:
		return strikeBased(p.Strike, +perShare)
	case models.LongCall:
		return strikeBased(p.Strike, +perShare)
	case models.LongPut:
		return strikeBased(p.Strike, -perShare)

	case models.CoveredCall:
		if p.CostBasis > 0 {
			v := p.CostBasis
			return &v
		}
		return strikeBased(p.Strike, +perShare)
	case models.BuyWrite:
		if p.CostBasis > 0 {
			v := p.CostBasis
			return &v
		}
		return nil

	case models.PutCreditSpread:
		// Anchored on the short (sell) strike, reduced by the credit.
		return strikeBased(p.SellStrike, -perShare)
	case models.CallCreditSpread:
		return strikeBased(p.SellStrike, +perShare)
	case models.PutDebitSpread:
		// Anchored on the long (buy) strike, reduced by the debit.
		return strikeBased(p.BuyStrike, -perShare)
	case models.CallDebitSpread:
		return strikeBased(p.BuyStrike, +perShare)

	case models.Skip:
		// The LEAPS leg pays for the structure; break-even sits above it
		// by the net debit, like a call debit spread.
		return strikeBased(p.BuyStrike, +perShare)

	default:
		return nil
	}
}

// strikeBased returns strike+offset, or nil when the strike is missing.
func strikeBased(strike, offset float64) *float64 {
	if strike <= 0 {
		return nil
	}
	v := strike + offset
	return &v
}
