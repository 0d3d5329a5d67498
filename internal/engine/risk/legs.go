package risk

import (
	"math"

	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
)

// RiskLeg returns the strike of the leg bearing assignment risk for a
// position, and whether that leg is a put.
//
// For two-leg verticals the risk sits on the short leg. Which strike is
// short depends on the spread type: a put credit spread sells the higher
// strike, a put debit spread the lower, a call credit spread the lower,
// a call debit spread the higher. Getting this backwards inverts the
// entire risk signal, so the table is explicit per kind.
func RiskLeg(p *models.Position) (strike float64, isPut bool, err error) {
	switch p.Strategy {
	case models.ShortPut, models.LongPut:
		return p.Strike, true, checkStrike(p, p.Strike)
	case models.ShortCall, models.LongCall, models.CoveredCall, models.BuyWrite:
		return p.Strike, false, checkStrike(p, p.Strike)

	case models.PutCreditSpread:
		return spreadLeg(p, true, true)
	case models.PutDebitSpread:
		return spreadLeg(p, true, false)
	case models.CallCreditSpread:
		return spreadLeg(p, false, false)
	case models.CallDebitSpread:
		return spreadLeg(p, false, true)

	case models.Skip:
		// The short overlay call carries the assignment risk; the LEAPS
		// leg is long and cannot be assigned against the holder.
		if p.SellStrike <= 0 {
			return 0, false, errors.NewPositionError(p.ID, p.Ticker, errors.ErrMissingStrike)
		}
		return p.SellStrike, false, nil

	default:
		return 0, false, errors.NewPositionError(p.ID, p.Ticker, errors.ErrUnknownStrategy)
	}
}

// spreadLeg picks the higher or lower strike of a vertical's pair.
func spreadLeg(p *models.Position, isPut, higher bool) (float64, bool, error) {
	if p.BuyStrike <= 0 || p.SellStrike <= 0 {
		return 0, isPut, errors.NewPositionError(p.ID, p.Ticker, errors.ErrMissingStrike)
	}
	if higher {
		return math.Max(p.BuyStrike, p.SellStrike), isPut, nil
	}
	return math.Min(p.BuyStrike, p.SellStrike), isPut, nil
}

func checkStrike(p *models.Position, strike float64) error {
	if strike <= 0 {
		return errors.NewPositionError(p.ID, p.Ticker, errors.ErrMissingStrike)
	}
	return nil
}
