// Package models provides domain models for the options journal.
package models

import (
	"math"
	"time"
)

// StrategyKind identifies the strategy a position was opened under.
type StrategyKind string

const (
	ShortPut         StrategyKind = "short_put"
	ShortCall        StrategyKind = "short_call"
	LongPut          StrategyKind = "long_put"
	LongCall         StrategyKind = "long_call"
	CoveredCall      StrategyKind = "covered_call"
	BuyWrite         StrategyKind = "buy_write"
	PutCreditSpread  StrategyKind = "put_credit_spread"
	PutDebitSpread   StrategyKind = "put_debit_spread"
	CallCreditSpread StrategyKind = "call_credit_spread"
	CallDebitSpread  StrategyKind = "call_debit_spread"
	// Skip is the two-leg LEAPS + short-call overlay strategy.
	Skip StrategyKind = "skip"
)

// Kinds lists every recognized strategy kind.
var Kinds = []StrategyKind{
	ShortPut, ShortCall, LongPut, LongCall,
	CoveredCall, BuyWrite,
	PutCreditSpread, PutDebitSpread, CallCreditSpread, CallDebitSpread,
	Skip,
}

// Valid reports whether k is a recognized strategy kind.
func (k StrategyKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsSpread reports whether the kind carries a buy/sell strike pair.
func (k StrategyKind) IsSpread() bool {
	switch k {
	case PutCreditSpread, PutDebitSpread, CallCreditSpread, CallDebitSpread, Skip:
		return true
	}
	return false
}

// IsCredit reports whether opening the position collects premium.
func (k StrategyKind) IsCredit() bool {
	switch k {
	case ShortPut, ShortCall, CoveredCall, BuyWrite, PutCreditSpread, CallCreditSpread:
		return true
	}
	return false
}

// IsPut reports whether the kind is built from put contracts.
func (k StrategyKind) IsPut() bool {
	switch k {
	case ShortPut, LongPut, PutCreditSpread, PutDebitSpread:
		return true
	}
	return false
}

// IsShort reports whether the kind carries naked or covered short exposure
// on its primary leg.
func (k StrategyKind) IsShort() bool {
	switch k {
	case ShortPut, ShortCall, CoveredCall, BuyWrite, PutCreditSpread, CallCreditSpread:
		return true
	}
	return false
}

// PositionStatus is the lifecycle state of a position.
type PositionStatus string

const (
	StatusOpen     PositionStatus = "open"
	StatusClosed   PositionStatus = "closed"
	StatusAssigned PositionStatus = "assigned"
)

// CloseReason records why a closed position left the book.
type CloseReason string

const (
	CloseRolled   CloseReason = "rolled"
	CloseExpired  CloseReason = "expired"
	CloseAssigned CloseReason = "assigned"
	CloseCalled   CloseReason = "called"
	CloseBought   CloseReason = "bought_back"
)

// SharesPerContract is the standard US option multiplier.
const SharesPerContract = 100

// Position is one option (or stock) contract entry in the journal.
//
// Exactly one of Strike or the BuyStrike/SellStrike pair is populated,
// depending on whether Strategy is a spread kind. Premium is the signed
// per-share price at open: positive for credit strategies, negative for
// debit strategies.
type Position struct {
	ID         string         `csv:"id"`
	Ticker     string         `csv:"ticker"`
	Strategy   StrategyKind   `csv:"strategy"`
	Strike     float64        `csv:"strike"`
	BuyStrike  float64        `csv:"buy_strike"`
	SellStrike float64        `csv:"sell_strike"`
	Premium    float64        `csv:"premium"`
	Contracts  int            `csv:"contracts"`
	Expiry     time.Time      `csv:"expiry"`
	OpenDate   time.Time      `csv:"open_date"`
	Status     PositionStatus `csv:"status"`
	Reason     CloseReason    `csv:"close_reason"`

	// BuyBackCost is the total cash paid to close the position when it was
	// rolled or bought back, zero otherwise.
	BuyBackCost float64 `csv:"buyback_cost"`
	// ClosePrice is the per-share price a long leg was sold at on close.
	ClosePrice float64 `csv:"close_price"`
	// CostBasis is the per-share stock basis for covered calls and buy/writes.
	CostBasis float64 `csv:"cost_basis"`

	// IVSnapshot is the implied volatility recorded at open, as a fraction
	// (0.50 = 50%). Zero means no snapshot was taken.
	IVSnapshot float64 `csv:"iv_snapshot"`
	ChainID    string  `csv:"chain_id"`
}

// DTE returns whole days until expiry as of now, never negative.
func (p *Position) DTE(now time.Time) int {
	d := int(math.Ceil(p.Expiry.Sub(now).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// PremiumPaid returns the per-share premium magnitude.
func (p *Position) PremiumPaid() float64 {
	return math.Abs(p.Premium)
}

// SignedPremiumTotal returns the position's total signed cash flow at open:
// premium x 100 x contracts, negative for debit strategies.
func (p *Position) SignedPremiumTotal() float64 {
	return p.Premium * SharesPerContract * float64(p.Contracts)
}

// Holding is a share position in the journal, keyed by ticker. It carries
// the strategy-intent signal the risk classifier consumes.
type Holding struct {
	Ticker    string  `csv:"ticker"`
	Shares    int     `csv:"shares"`
	CostBasis float64 `csv:"cost_basis"`

	// WantsAssignment marks that the owner intends for short options on
	// this ticker to be assigned, so a high ITM probability is the
	// desired outcome rather than a warning.
	WantsAssignment bool `csv:"wants_assignment"`
}
