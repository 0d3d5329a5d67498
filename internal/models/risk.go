package models

// RiskTier is the discrete risk bucket for an open position. Tiers are
// ordered: Safe < Watch < Caution < Danger. TierTarget and TierUnknown sit
// outside the ordering.
type RiskTier int

const (
	TierSafe RiskTier = iota
	TierWatch
	TierCaution
	TierDanger
	// TierTarget marks a high ITM probability that is the position's goal
	// (assignment intended), reported as a positive signal.
	TierTarget
	// TierUnknown is the sentinel for positions that could not be assessed.
	TierUnknown
)

// String returns the tier's display name.
func (t RiskTier) String() string {
	switch t {
	case TierSafe:
		return "safe"
	case TierWatch:
		return "watch"
	case TierCaution:
		return "caution"
	case TierDanger:
		return "danger"
	case TierTarget:
		return "on-target"
	default:
		return "unknown"
	}
}

// Icon returns the status glyph shown next to the tier.
func (t RiskTier) Icon() string {
	switch t {
	case TierSafe:
		return "🟢"
	case TierWatch:
		return "🟡"
	case TierCaution:
		return "🟠"
	case TierDanger:
		return "🔴"
	case TierTarget:
		return "🎯"
	default:
		return "❔"
	}
}

// RiskAssessment is the classifier's output for one position.
type RiskAssessment struct {
	Ticker string
	// ITMProbability is the estimated chance, in percent, that the
	// position's risk leg finishes in-the-money.
	ITMProbability float64
	Tier           RiskTier
	Status         string
	NeedsAttention bool
	// AssignmentIntended is set when a high probability was reported as a
	// positive signal because the holding asked for assignment.
	AssignmentIntended bool
	// ProbabilityKnown is false on the DTE-only fallback path, where no
	// spot price was available and ITMProbability is meaningless.
	ProbabilityKnown bool
}
