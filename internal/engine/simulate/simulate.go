// Package simulate generates stochastic price paths for the journal's
// risk visualizations.
//
// Paths evolve on a normalized coordinate, 0 being the lower reference and
// 1 the strike/settlement reference, so the same walk serves both barrier
// knockout runs and fixed-horizon settlement runs.
package simulate

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"wheelhouse/internal/models"
)

// Params configures one path run.
type Params struct {
	// Start is the initial normalized coordinate, typically in (0, 1).
	Start float64
	// StrikeThreshold is the settlement reference compared against the
	// final coordinate in time-limit mode.
	StrikeThreshold float64
	// Sigma scales each increment; DT is the step size in simulation time.
	Sigma float64
	DT    float64
	// UseTimeLimit selects settlement mode; TimeLimit is the horizon.
	UseTimeLimit bool
	TimeLimit    float64
}

// maxSteps caps a barrier-mode walk that has not hit either wall. With any
// reasonable sigma/dt the walk terminates far earlier with probability 1.
const maxSteps = 1_000_000

// Simulator draws independent paths from a shared normal source.
type Simulator struct {
	normal distuv.Normal
}

// New returns a Simulator. A nil source uses the global generator; tests
// pass a seeded source for reproducible paths.
func New(src rand.Source) *Simulator {
	return &Simulator{
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// Run generates one path under p and returns its result. Step increments
// are sigma * N(0,1) * sqrt(dt). Barrier violation is checked only at
// discrete step boundaries; no sub-step crossing correction is applied.
func (s *Simulator) Run(p Params) models.SimulationResult {
	sqrtDT := math.Sqrt(p.DT)
	pos := p.Start
	t := 0.0
	path := []float64{pos}

	if p.UseTimeLimit {
		for t < p.TimeLimit {
			pos += p.Sigma * s.normal.Rand() * sqrtDT
			t += p.DT
			path = append(path, pos)
		}
		return models.SimulationResult{
			FinalTime: t,
			Outcome:   settle(pos, p.StrikeThreshold),
			Expired:   true,
			Path:      path,
		}
	}

	for i := 0; i < maxSteps; i++ {
		pos += p.Sigma * s.normal.Rand() * sqrtDT
		t += p.DT
		path = append(path, pos)
		if pos <= 0 {
			return models.SimulationResult{
				FinalTime: t,
				Outcome:   models.OutcomeLeftBarrier,
				Path:      path,
			}
		}
		if pos >= 1 {
			return models.SimulationResult{
				FinalTime: t,
				Outcome:   models.OutcomeRightBarrier,
				Path:      path,
			}
		}
	}

	// Safety cap reached: report the nearer wall.
	out := models.PathOutcome(models.OutcomeLeftBarrier)
	if pos > 0.5 {
		out = models.OutcomeRightBarrier
	}
	return models.SimulationResult{FinalTime: t, Outcome: out, Path: path}
}

// settle classifies a final coordinate against the strike reference.
// Exact equality is a distinct outcome, not merged into either side.
func settle(pos, threshold float64) models.PathOutcome {
	switch {
	case pos < threshold:
		return models.OutcomeBelowStrike
	case pos == threshold:
		return models.OutcomeAtStrike
	default:
		return models.OutcomeAboveStrike
	}
}
