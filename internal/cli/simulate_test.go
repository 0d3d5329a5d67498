package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"wheelhouse/internal/engine/simulate"
	"wheelhouse/internal/models"
)

func TestRenderSessionHandlesPathlessResults(t *testing.T) {
	session := simulate.NewSession()
	results := []models.SimulationResult{
		{Outcome: models.OutcomeLeftBarrier, FinalTime: 0.4, Path: []float64{0.5, 0.2, 0.0}},
		// Settlement records can carry no trajectory.
		{Outcome: models.OutcomeAtStrike, Expired: true, FinalTime: 1.0},
	}
	for _, r := range results {
		session.Record(r)
	}

	var buf bytes.Buffer
	output := &Output{writer: &buf}

	params := simulate.Params{Start: 0.5, StrikeThreshold: 0.5, Sigma: 1, DT: 0.01}
	renderSession(output, session, params, results, true)

	assert.Contains(t, buf.String(), "no path recorded")
	assert.Contains(t, buf.String(), "2 steps")
}
