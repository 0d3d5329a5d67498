package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"

	"wheelhouse/internal/models"
)

func TestRunBarrierModeTerminatesAtWall(t *testing.T) {
	sim := New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		res := sim.Run(Params{
			Start: 0.5,
			Sigma: 0.3,
			DT:    0.01,
		})

		assert.False(t, res.Expired, "barrier runs are knockouts, not expiries")
		final := res.Path[len(res.Path)-1]
		switch res.Outcome {
		case models.OutcomeLeftBarrier:
			assert.LessOrEqual(t, final, 0.0)
		case models.OutcomeRightBarrier:
			assert.GreaterOrEqual(t, final, 1.0)
		default:
			t.Fatalf("unexpected barrier outcome %v", res.Outcome)
		}
		assert.Greater(t, res.FinalTime, 0.0)
	}
}

func TestRunTimeLimitModeRunsToHorizon(t *testing.T) {
	sim := New(rand.NewSource(7))

	res := sim.Run(Params{
		Start:           0.5,
		StrikeThreshold: 0.5,
		Sigma:           0.2,
		DT:              0.05,
		UseTimeLimit:    true,
		TimeLimit:       1.0,
	})

	assert.True(t, res.Expired)
	assert.GreaterOrEqual(t, res.FinalTime, 1.0)
	assert.Contains(t, []models.PathOutcome{
		models.OutcomeBelowStrike,
		models.OutcomeAtStrike,
		models.OutcomeAboveStrike,
	}, res.Outcome)
}

func TestRunZeroSigmaSettlesAtStrike(t *testing.T) {
	sim := New(rand.NewSource(1))

	// With sigma=0 the path never moves, so a start exactly on the
	// reference must settle as at-strike, the distinct third outcome.
	res := sim.Run(Params{
		Start:           0.5,
		StrikeThreshold: 0.5,
		Sigma:           0,
		DT:              0.1,
		UseTimeLimit:    true,
		TimeLimit:       1.0,
	})
	assert.Equal(t, models.OutcomeAtStrike, res.Outcome)

	res = sim.Run(Params{
		Start:           0.4,
		StrikeThreshold: 0.5,
		Sigma:           0,
		DT:              0.1,
		UseTimeLimit:    true,
		TimeLimit:       1.0,
	})
	assert.Equal(t, models.OutcomeBelowStrike, res.Outcome)
}

func TestRunStartOutsideWallsTerminatesImmediately(t *testing.T) {
	sim := New(rand.NewSource(3))

	res := sim.Run(Params{Start: 1.5, Sigma: 0.001, DT: 0.01})
	assert.Equal(t, models.OutcomeRightBarrier, res.Outcome)
	assert.Len(t, res.Path, 2)
}

func TestSessionCountersAndHistory(t *testing.T) {
	s := NewSession()

	for i := 0; i < 20; i++ {
		s.Record(models.SimulationResult{
			Outcome: models.OutcomeLeftBarrier,
			Path:    []float64{0.5, float64(i)},
		})
	}
	s.Record(models.SimulationResult{Outcome: models.OutcomeRightBarrier})
	s.Record(models.SimulationResult{Outcome: models.OutcomeAtStrike, Expired: true})

	assert.Equal(t, 20, s.LeftHits)
	assert.Equal(t, 1, s.RightHits)
	assert.Equal(t, 1, s.AtCount)
	assert.Equal(t, 22, s.Total())

	// History is a bounded rolling window of the most recent paths.
	hist := s.History()
	assert.Len(t, hist, HistorySize)
	last := hist[len(hist)-1]
	assert.Nil(t, last) // the at-strike record carried no path
}
