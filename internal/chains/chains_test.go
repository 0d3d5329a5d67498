package chains

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheelhouse/internal/models"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestGroupOrdersByOpenDate(t *testing.T) {
	positions := []models.Position{
		{ID: "b", ChainID: "c1", Ticker: "XYZ", OpenDate: day(30), Status: models.StatusOpen},
		{ID: "a", ChainID: "c1", Ticker: "XYZ", OpenDate: day(0), Status: models.StatusClosed, Reason: models.CloseRolled},
		{ID: "solo", Ticker: "ABC", OpenDate: day(5), Status: models.StatusOpen},
	}

	chains := Group(positions)
	require.Len(t, chains, 2)

	c1 := chains[0]
	assert.Equal(t, "c1", c1.ID)
	require.Len(t, c1.Positions, 2)
	assert.Equal(t, "a", c1.Positions[0].ID)
	assert.Equal(t, "b", c1.Positions[1].ID)
	assert.Equal(t, "b", c1.Current().ID)

	// A position without a chain id is its own chain.
	assert.Equal(t, "solo", chains[1].ID)
}

func TestSummarizeRollInvariance(t *testing.T) {
	// Open a $100 put for $2.00 (+$200), roll with a $1.00 buy-back
	// (-$100) into a $2.50 premium (+$250): net premium must be $350,
	// identical to the single-shot computation 200 - 100 + 250.
	original := models.Position{
		ID: "p1", ChainID: "c1", Ticker: "XYZ",
		Strategy: models.ShortPut, Strike: 100,
		Premium: 2.00, Contracts: 1,
		OpenDate: day(0), Status: models.StatusClosed,
		Reason: models.CloseRolled, BuyBackCost: 100,
	}
	rolled := models.Position{
		ID: "p2", ChainID: "c1", Ticker: "XYZ",
		Strategy: models.ShortPut, Strike: 95,
		Premium: 2.50, Contracts: 1,
		OpenDate: day(20), Status: models.StatusOpen,
	}

	s := Summarize(Group([]models.Position{rolled, original})[0])

	assert.InDelta(t, 350, s.NetPremium, 1e-9)
	assert.True(t, s.HasRolls)
	assert.Equal(t, 2, s.Members)

	// Break-even reflects the whole chain's basis, not just the open leg:
	// 95 - 3.50.
	require.NotNil(t, s.Breakeven)
	assert.InDelta(t, 91.50, *s.Breakeven, 1e-9)

	// The rolled member locked in premium minus buy-back.
	assert.InDelta(t, 100, s.RealizedPnL, 1e-9)
}

func TestSummarizeAssignmentRealizesFullPremium(t *testing.T) {
	assigned := models.Position{
		ID: "p1", ChainID: "c1", Ticker: "XYZ",
		Strategy: models.ShortPut, Strike: 50,
		Premium: 1.80, Contracts: 2,
		OpenDate: day(0), Status: models.StatusAssigned,
		Reason: models.CloseAssigned,
	}

	s := Summarize(Group([]models.Position{assigned})[0])
	assert.InDelta(t, 360, s.RealizedPnL, 1e-9)
	assert.InDelta(t, 360, s.NetPremium, 1e-9)
	assert.False(t, s.HasRolls)
}

func TestSummarizeLongLegRealized(t *testing.T) {
	closed := models.Position{
		ID: "p1", Ticker: "XYZ",
		Strategy: models.LongCall, Strike: 100,
		Premium: -3.00, Contracts: 1,
		ClosePrice: 5.50,
		OpenDate:   day(0), Status: models.StatusClosed,
		Reason: models.CloseBought,
	}

	s := Summarize(Group([]models.Position{closed})[0])
	// Sold at 5.50 against a 3.00 entry: +250. Net premium is the debit.
	assert.InDelta(t, 250, s.RealizedPnL, 1e-9)
	assert.InDelta(t, -300, s.NetPremium, 1e-9)
}

func TestSummarizeEmptyChain(t *testing.T) {
	s := Summarize(Chain{ID: "empty"})
	assert.Zero(t, s.NetPremium)
	assert.Nil(t, s.Breakeven)
}
