package models

// PathOutcome classifies how a simulated path terminated.
type PathOutcome int

const (
	// OutcomeLeftBarrier and OutcomeRightBarrier terminate barrier-mode runs.
	OutcomeLeftBarrier PathOutcome = iota
	OutcomeRightBarrier
	// Settlement outcomes for time-limit runs, relative to the strike
	// reference. OutcomeAtStrike is exact equality, a distinct third case.
	OutcomeBelowStrike
	OutcomeAtStrike
	OutcomeAboveStrike
)

// String returns the outcome's display name.
func (o PathOutcome) String() string {
	switch o {
	case OutcomeLeftBarrier:
		return "left-barrier"
	case OutcomeRightBarrier:
		return "right-barrier"
	case OutcomeBelowStrike:
		return "below-strike"
	case OutcomeAtStrike:
		return "at-strike"
	case OutcomeAboveStrike:
		return "above-strike"
	default:
		return "unknown"
	}
}

// SimulationResult is the ephemeral output of a single path run. It is
// consumed immediately by a SimulationSession and never persisted.
type SimulationResult struct {
	// FinalTime is the elapsed simulation time when the path terminated.
	FinalTime float64
	Outcome   PathOutcome
	// Expired is true for time-limit settlement, false for a barrier
	// knockout.
	Expired bool
	// Path holds the full trajectory including the starting coordinate.
	Path []float64
}

// Greeks is a single position's delta/theta exposure, scaled to shares.
type Greeks struct {
	Delta float64
	Theta float64
}

// ChainSummary aggregates a roll chain's cash flows.
type ChainSummary struct {
	ChainID string
	Ticker  string
	// NetPremium is the chain's cumulative signed cash flow in dollars:
	// every member's premium at open minus buy-back costs paid to roll.
	NetPremium float64
	// RealizedPnL is the cash already locked in by closed members.
	RealizedPnL float64
	// Breakeven is nil when the chain's strategy is missing the fields
	// its break-even formula requires.
	Breakeven *float64
	HasRolls  bool
	Members   int
}
