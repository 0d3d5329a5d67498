// Package risk classifies open positions into discrete risk tiers from
// Monte Carlo ITM probabilities and position metadata.
package risk

import (
	"time"

	"github.com/rs/zerolog"

	"wheelhouse/internal/engine/probability"
	"wheelhouse/internal/models"
)

// Status codes surfaced alongside the tier.
const (
	StatusOK       = "ok"
	StatusWatch    = "watch"
	StatusCheck    = "check"
	StatusAtRisk   = "at risk"
	StatusOnTarget = "assignment on track"
	StatusUnknown  = "unknown"
)

// DTE cutoffs for the no-market-data fallback.
const (
	fallbackUrgentDTE = 5
	fallbackWatchDTE  = 14
)

// Classifier maps positions to risk assessments.
type Classifier struct {
	est *probability.Estimator
	log zerolog.Logger
}

// New creates a Classifier backed by the given probability estimator.
func New(est *probability.Estimator, logger zerolog.Logger) *Classifier {
	return &Classifier{
		est: est,
		log: logger.With().Str("component", "risk").Logger(),
	}
}

// Classify assesses one position as of now.
//
// spot and liveIV are nullable: a missing spot triggers the coarse
// DTE-only fallback, a missing liveIV falls through the IV precedence
// chain (live > snapshot > ticker heuristic). holding carries the
// assignment-intent signal and may be nil. Malformed positions yield the
// sentinel unknown assessment rather than an error, so a batch refresh
// never aborts on one bad record.
func (c *Classifier) Classify(p *models.Position, spot, liveIV *float64, holding *models.Holding, now time.Time) models.RiskAssessment {
	strike, isPut, err := RiskLeg(p)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", p.Ticker).Msg("cannot assess position")
		return models.RiskAssessment{
			Ticker: p.Ticker,
			Tier:   models.TierUnknown,
			Status: StatusUnknown,
		}
	}

	dte := p.DTE(now)
	if spot == nil {
		return c.dteFallback(p, dte)
	}

	iv := ResolveIV(p, LiveIV(liveIV), SnapshotIV(), HeuristicIV())
	prob := c.est.ITMProbability(*spot, strike, dte, iv, isPut)

	b := bandFor(dte)
	if creditSpreadRelaxes(p, *spot, strike, isPut) {
		b = b.relax(creditOTMPP)
	}
	tier := tierFor(prob, b)

	a := models.RiskAssessment{
		Ticker:           p.Ticker,
		ITMProbability:   prob,
		Tier:             tier,
		Status:           statusFor(tier),
		NeedsAttention:   tier >= models.TierCaution,
		ProbabilityKnown: true,
	}

	// Assignment intent flips a high probability into the desired outcome.
	// The probability itself is reported untouched; only the tier and the
	// attention flag change.
	if wantsAssignment(p, holding) && tier >= models.TierCaution {
		a.Tier = models.TierTarget
		a.Status = StatusOnTarget
		a.NeedsAttention = false
		a.AssignmentIntended = true
	}

	return a
}

// dteFallback is the coarse assessment used when no spot price is known.
func (c *Classifier) dteFallback(p *models.Position, dte int) models.RiskAssessment {
	a := models.RiskAssessment{Ticker: p.Ticker}
	switch {
	case dte <= fallbackUrgentDTE:
		a.Tier = models.TierCaution
		a.Status = StatusCheck
		a.NeedsAttention = true
	case dte <= fallbackWatchDTE:
		a.Tier = models.TierWatch
		a.Status = StatusCheck
	default:
		a.Tier = models.TierSafe
		a.Status = StatusOK
	}
	return a
}

// creditSpreadRelaxes reports whether the +10pp band relaxation applies:
// a credit spread whose short leg is currently out-of-the-money by at
// least half a percent.
func creditSpreadRelaxes(p *models.Position, spot, strike float64, isPut bool) bool {
	switch p.Strategy {
	case models.PutCreditSpread, models.CallCreditSpread:
		return currentlyOTM(spot, strike, isPut)
	}
	return false
}

// wantsAssignment reports whether the holding attached to this ticker has
// asked for short options to be assigned. Only short exposure can be
// assigned, so long-only kinds never trigger the override.
func wantsAssignment(p *models.Position, holding *models.Holding) bool {
	return holding != nil && holding.WantsAssignment && p.Strategy.IsShort()
}

func statusFor(tier models.RiskTier) string {
	switch tier {
	case models.TierSafe:
		return StatusOK
	case models.TierWatch:
		return StatusWatch
	case models.TierCaution:
		return StatusCheck
	case models.TierDanger:
		return StatusAtRisk
	default:
		return StatusUnknown
	}
}
