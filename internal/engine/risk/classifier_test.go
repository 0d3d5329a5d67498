package risk

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"

	"wheelhouse/internal/engine/probability"
	"wheelhouse/internal/models"
)

func newTestClassifier(seed uint64) *Classifier {
	est := probability.New(probability.WithSource(rand.NewSource(seed)))
	return New(est, zerolog.Nop())
}

func ptr(v float64) *float64 { return &v }

func shortPut(ticker string, strike float64, dte int) *models.Position {
	now := time.Now()
	return &models.Position{
		ID:        "t-1",
		Ticker:    ticker,
		Strategy:  models.ShortPut,
		Strike:    strike,
		Premium:   1.50,
		Contracts: 1,
		OpenDate:  now,
		Expiry:    now.AddDate(0, 0, dte),
		Status:    models.StatusOpen,
	}
}

func TestClassifyShortDatedITMPutIsUrgent(t *testing.T) {
	c := newTestClassifier(1)
	now := time.Now()

	// Strike 50, spot 45, 10 DTE, 50% vol: deep ITM on a near expiry.
	p := shortPut("XYZ", 50, 10)
	a := c.Classify(p, ptr(45), ptr(0.50), nil, now)

	assert.True(t, a.ProbabilityKnown)
	assert.Greater(t, a.ITMProbability, 60.0)
	assert.GreaterOrEqual(t, a.Tier, models.TierCaution)
	assert.True(t, a.NeedsAttention)
}

func TestClassifyLEAPSBandIsPermissive(t *testing.T) {
	c := newTestClassifier(2)
	now := time.Now()

	// Same strike/spot/vol, 400 DTE: the long-dated band absorbs a
	// similar probability without raising an alarm.
	p := shortPut("XYZ", 50, 400)
	a := c.Classify(p, ptr(45), ptr(0.50), nil, now)

	assert.True(t, a.ProbabilityKnown)
	assert.LessOrEqual(t, a.Tier, models.TierWatch)
	assert.False(t, a.NeedsAttention)
}

func TestClassifyAssignmentIntentOverride(t *testing.T) {
	now := time.Now()
	pos := &models.Position{
		ID:        "t-2",
		Ticker:    "ABC",
		Strategy:  models.ShortCall,
		Strike:    50,
		Premium:   2.00,
		Contracts: 1,
		Expiry:    now.AddDate(0, 0, 10),
		Status:    models.StatusOpen,
	}
	spot, iv := ptr(60), ptr(0.50)

	// Same seed for both runs so the probability estimate is identical.
	plain := newTestClassifier(3).Classify(pos, spot, iv, nil, now)
	holding := &models.Holding{Ticker: "ABC", Shares: 100, WantsAssignment: true}
	wanted := newTestClassifier(3).Classify(pos, spot, iv, holding, now)

	assert.Equal(t, models.TierDanger, plain.Tier)
	assert.True(t, plain.NeedsAttention)
	assert.False(t, plain.AssignmentIntended)

	assert.Equal(t, models.TierTarget, wanted.Tier)
	assert.False(t, wanted.NeedsAttention)
	assert.True(t, wanted.AssignmentIntended)

	// The override changes tier and flags only, never the number.
	assert.Equal(t, plain.ITMProbability, wanted.ITMProbability)
}

func TestClassifyNoSpotFallsBackToDTE(t *testing.T) {
	c := newTestClassifier(4)
	now := time.Now()

	cases := []struct {
		dte       int
		tier      models.RiskTier
		status    string
		attention bool
	}{
		{3, models.TierCaution, StatusCheck, true},
		{10, models.TierWatch, StatusCheck, false},
		{60, models.TierSafe, StatusOK, false},
	}
	for _, tc := range cases {
		a := c.Classify(shortPut("XYZ", 50, tc.dte), nil, nil, nil, now)
		assert.Equal(t, tc.tier, a.Tier, "dte %d", tc.dte)
		assert.Equal(t, tc.status, a.Status, "dte %d", tc.dte)
		assert.Equal(t, tc.attention, a.NeedsAttention, "dte %d", tc.dte)
		assert.False(t, a.ProbabilityKnown)
	}
}

func TestClassifyMalformedPositionIsUnknown(t *testing.T) {
	c := newTestClassifier(5)
	now := time.Now()

	bad := &models.Position{
		ID:       "t-3",
		Ticker:   "XYZ",
		Strategy: models.PutCreditSpread,
		// SellStrike missing
		BuyStrike: 90,
		Expiry:    now.AddDate(0, 0, 30),
	}
	a := c.Classify(bad, ptr(100), nil, nil, now)
	assert.Equal(t, models.TierUnknown, a.Tier)
	assert.Equal(t, StatusUnknown, a.Status)

	odd := &models.Position{ID: "t-4", Ticker: "XYZ", Strategy: "iron_condor"}
	a = c.Classify(odd, ptr(100), nil, nil, now)
	assert.Equal(t, models.TierUnknown, a.Tier)
}

func TestBandThresholds(t *testing.T) {
	cases := []struct {
		dte  int
		prob float64
		tier models.RiskTier
	}{
		// Short-dated band: 30/40/50.
		{10, 29, models.TierSafe},
		{10, 35, models.TierWatch},
		{10, 45, models.TierCaution},
		{10, 55, models.TierDanger},
		// Mid band: 40/50/60.
		{90, 45, models.TierWatch},
		{90, 65, models.TierDanger},
		// LEAPS band: 60/70/80.
		{400, 59, models.TierSafe},
		{400, 75, models.TierCaution},
		{400, 85, models.TierDanger},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.tier, tierFor(tc.prob, bandFor(tc.dte)),
			"dte=%d prob=%v", tc.dte, tc.prob)
	}
}

func TestCreditSpreadRelaxation(t *testing.T) {
	now := time.Now()
	spread := &models.Position{
		ID:         "t-5",
		Ticker:     "XYZ",
		Strategy:   models.PutCreditSpread,
		BuyStrike:  90,
		SellStrike: 95,
		Premium:    1.50,
		Contracts:  1,
		Expiry:     now.AddDate(0, 0, 45),
	}

	// Short leg 95, spot 100: comfortably OTM, relaxation applies.
	assert.True(t, creditSpreadRelaxes(spread, 100, 95, true))
	// Spot right at the strike: no cushion, no relaxation.
	assert.False(t, creditSpreadRelaxes(spread, 95, 95, true))

	// Debit spreads never relax.
	spread.Strategy = models.PutDebitSpread
	assert.False(t, creditSpreadRelaxes(spread, 100, 95, true))

	// The relaxed band shifts every cutoff by the same amount.
	b := bandFor(45)
	r := b.relax(creditOTMPP)
	assert.Equal(t, b.Safe+10, r.Safe)
	assert.Equal(t, b.Watch+10, r.Watch)
	assert.Equal(t, b.Caution+10, r.Caution)
}
