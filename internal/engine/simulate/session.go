package simulate

import "wheelhouse/internal/models"

// HistorySize is how many recent paths a session retains for display.
const HistorySize = 15

// Session accumulates outcome counters across runs and keeps a bounded
// rolling history of recent paths. It replaces process-wide counters: the
// caller owns one session per UI view and passes results into it.
type Session struct {
	LeftHits   int
	RightHits  int
	BelowCount int
	AtCount    int
	AboveCount int

	history [][]float64
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Record applies one completed path to the session's counters and history.
func (s *Session) Record(res models.SimulationResult) {
	switch res.Outcome {
	case models.OutcomeLeftBarrier:
		s.LeftHits++
	case models.OutcomeRightBarrier:
		s.RightHits++
	case models.OutcomeBelowStrike:
		s.BelowCount++
	case models.OutcomeAtStrike:
		s.AtCount++
	case models.OutcomeAboveStrike:
		s.AboveCount++
	}

	s.history = append(s.history, res.Path)
	if len(s.history) > HistorySize {
		s.history = s.history[len(s.history)-HistorySize:]
	}
}

// Total returns the number of recorded runs.
func (s *Session) Total() int {
	return s.LeftHits + s.RightHits + s.BelowCount + s.AtCount + s.AboveCount
}

// History returns the retained paths, oldest first. The returned slice is
// shared; callers must not mutate it.
func (s *Session) History() [][]float64 {
	return s.history
}
