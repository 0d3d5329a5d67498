package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePosition(id string) *models.Position {
	open := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return &models.Position{
		ID:        id,
		Ticker:    "AAPL",
		Strategy:  models.ShortPut,
		Strike:    200,
		Premium:   2.50,
		Contracts: 1,
		OpenDate:  open,
		Expiry:    open.AddDate(0, 1, 0),
		Status:    models.StatusOpen,
	}
}

func TestSaveAndGetPositions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePosition(ctx, samplePosition("p1")))
	p2 := samplePosition("p2")
	p2.Ticker = "PLTR"
	p2.Status = models.StatusClosed
	p2.Reason = models.CloseExpired
	require.NoError(t, s.SavePosition(ctx, p2))

	all, err := s.GetPositions(ctx, PositionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := s.GetPositions(ctx, PositionFilter{Status: models.StatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "p1", open[0].ID)
	assert.Equal(t, models.ShortPut, open[0].Strategy)
	assert.Equal(t, 2.50, open[0].Premium)

	pltr, err := s.GetPositions(ctx, PositionFilter{Ticker: "PLTR"})
	require.NoError(t, err)
	require.Len(t, pltr, 1)
	assert.Equal(t, models.CloseExpired, pltr[0].Reason)
}

func TestRollPositionKeepsChain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := samplePosition("p1")
	require.NoError(t, s.SavePosition(ctx, original))

	successor := samplePosition("p2")
	successor.Strike = 195
	successor.Premium = 3.00
	successor.OpenDate = original.OpenDate.AddDate(0, 1, 0)
	require.NoError(t, s.RollPosition(ctx, "p1", 120, successor))

	// The old member's id seeds the chain id; both members share it.
	chain, err := s.GetChain(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, chain, 2)

	assert.Equal(t, models.StatusClosed, chain[0].Status)
	assert.Equal(t, models.CloseRolled, chain[0].Reason)
	assert.Equal(t, 120.0, chain[0].BuyBackCost)

	assert.Equal(t, models.StatusOpen, chain[1].Status)
	assert.Equal(t, "p1", chain[1].ChainID)
	assert.Equal(t, 195.0, chain[1].Strike)
}

func TestClosePosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePosition(ctx, samplePosition("p1")))
	require.NoError(t, s.ClosePosition(ctx, "p1", models.StatusAssigned, models.CloseAssigned, 0, 0))

	got, err := s.GetPositions(ctx, PositionFilter{Status: models.StatusAssigned})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.CloseAssigned, got[0].Reason)

	assert.Error(t, s.ClosePosition(ctx, "nope", models.StatusClosed, models.CloseExpired, 0, 0))
}

func TestHoldings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveHolding(ctx, &models.Holding{
		Ticker: "PLTR", Shares: 300, CostBasis: 22.40, WantsAssignment: true,
	}))
	require.NoError(t, s.SaveHolding(ctx, &models.Holding{Ticker: "KO", Shares: 100}))

	holdings, err := s.GetHoldings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.True(t, holdings["PLTR"].WantsAssignment)
	assert.False(t, holdings["KO"].WantsAssignment)
}

func TestCSVRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePosition(ctx, samplePosition("p1")))

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(ctx, &buf, PositionFilter{}))
	assert.Contains(t, buf.String(), "AAPL")

	s2 := newTestStore(t)
	n, err := s2.ImportCSV(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	imported, err := s2.GetPositions(ctx, PositionFilter{})
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "p1", imported[0].ID)
	assert.Equal(t, 200.0, imported[0].Strike)
}

func TestQuotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	asOf := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	require.NoError(t, s.SaveQuote(ctx, "AAPL", 201.50, 0.32, asOf))

	spot, iv, got, err := s.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 201.50, spot)
	assert.Equal(t, 0.32, iv)
	assert.True(t, got.Equal(asOf))

	// Replacing keeps one row per ticker.
	require.NoError(t, s.SaveQuote(ctx, "AAPL", 205.00, 0, asOf.Add(time.Hour)))
	spot, iv, _, err = s.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 205.00, spot)
	assert.Equal(t, 0.0, iv)

	_, _, _, err = s.GetQuote(ctx, "MISSING")
	assert.ErrorIs(t, err, errors.ErrNoMarketData)
}

func TestGetPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePosition(ctx, samplePosition("p1")))

	p, err := s.GetPosition(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", p.Ticker)

	_, err = s.GetPosition(ctx, "nope")
	assert.ErrorIs(t, err, errors.ErrPositionNotFound)
}
