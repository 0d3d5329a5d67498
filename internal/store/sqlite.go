// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
)

// SQLiteStore persists journal positions and holdings in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based journal store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Positions table: one row per option entry, open or closed
	CREATE TABLE IF NOT EXISTS positions (
		id TEXT PRIMARY KEY,
		ticker TEXT NOT NULL,
		strategy TEXT NOT NULL,
		strike REAL DEFAULT 0,
		buy_strike REAL DEFAULT 0,
		sell_strike REAL DEFAULT 0,
		premium REAL NOT NULL,
		contracts INTEGER NOT NULL,
		expiry DATETIME NOT NULL,
		open_date DATETIME NOT NULL,
		status TEXT NOT NULL,
		close_reason TEXT DEFAULT '',
		buyback_cost REAL DEFAULT 0,
		close_price REAL DEFAULT 0,
		cost_basis REAL DEFAULT 0,
		iv_snapshot REAL DEFAULT 0,
		chain_id TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Holdings table: share positions carrying the assignment-intent flag
	CREATE TABLE IF NOT EXISTS holdings (
		ticker TEXT PRIMARY KEY,
		shares INTEGER NOT NULL,
		cost_basis REAL DEFAULT 0,
		wants_assignment INTEGER DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Quotes table: manually recorded spot/IV snapshots
	CREATE TABLE IF NOT EXISTS quotes (
		ticker TEXT PRIMARY KEY,
		spot REAL NOT NULL,
		iv REAL DEFAULT 0,
		as_of DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_positions_ticker ON positions(ticker);
	CREATE INDEX IF NOT EXISTS idx_positions_status ON positions(status);
	CREATE INDEX IF NOT EXISTS idx_positions_chain ON positions(chain_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SavePosition inserts or replaces a position.
func (s *SQLiteStore) SavePosition(ctx context.Context, p *models.Position) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO positions
		(id, ticker, strategy, strike, buy_strike, sell_strike, premium,
		 contracts, expiry, open_date, status, close_reason, buyback_cost,
		 close_price, cost_basis, iv_snapshot, chain_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Ticker, string(p.Strategy), p.Strike, p.BuyStrike, p.SellStrike,
		p.Premium, p.Contracts, p.Expiry, p.OpenDate, string(p.Status),
		string(p.Reason), p.BuyBackCost, p.ClosePrice, p.CostBasis,
		p.IVSnapshot, p.ChainID,
	)
	if err != nil {
		return fmt.Errorf("saving position %s: %w", p.ID, err)
	}
	return nil
}

// PositionFilter narrows position queries. Zero values match everything.
type PositionFilter struct {
	Ticker  string
	Status  models.PositionStatus
	ChainID string
}

// GetPositions returns positions matching the filter, oldest first.
func (s *SQLiteStore) GetPositions(ctx context.Context, filter PositionFilter) ([]models.Position, error) {
	query := `SELECT id, ticker, strategy, strike, buy_strike, sell_strike,
		premium, contracts, expiry, open_date, status, close_reason,
		buyback_cost, close_price, cost_basis, iv_snapshot, chain_id
		FROM positions`

	var conds []string
	var args []interface{}
	if filter.Ticker != "" {
		conds = append(conds, "ticker = ?")
		args = append(args, filter.Ticker)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ChainID != "" {
		conds = append(conds, "chain_id = ?")
		args = append(args, filter.ChainID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY open_date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		var strategy, status, reason string
		if err := rows.Scan(&p.ID, &p.Ticker, &strategy, &p.Strike,
			&p.BuyStrike, &p.SellStrike, &p.Premium, &p.Contracts,
			&p.Expiry, &p.OpenDate, &status, &reason, &p.BuyBackCost,
			&p.ClosePrice, &p.CostBasis, &p.IVSnapshot, &p.ChainID); err != nil {
			return nil, fmt.Errorf("scanning position: %w", err)
		}
		p.Strategy = models.StrategyKind(strategy)
		p.Status = models.PositionStatus(status)
		p.Reason = models.CloseReason(reason)
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// GetPosition returns a single position by ID.
func (s *SQLiteStore) GetPosition(ctx context.Context, id string) (*models.Position, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, ticker, strategy, strike, buy_strike, sell_strike,
		premium, contracts, expiry, open_date, status, close_reason,
		buyback_cost, close_price, cost_basis, iv_snapshot, chain_id
		FROM positions WHERE id = ?`, id)

	var p models.Position
	var strategy, status, reason string
	if err := row.Scan(&p.ID, &p.Ticker, &strategy, &p.Strike,
		&p.BuyStrike, &p.SellStrike, &p.Premium, &p.Contracts,
		&p.Expiry, &p.OpenDate, &status, &reason, &p.BuyBackCost,
		&p.ClosePrice, &p.CostBasis, &p.IVSnapshot, &p.ChainID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("position %s: %w", id, errors.ErrPositionNotFound)
		}
		return nil, fmt.Errorf("querying position %s: %w", id, err)
	}
	p.Strategy = models.StrategyKind(strategy)
	p.Status = models.PositionStatus(status)
	p.Reason = models.CloseReason(reason)
	return &p, nil
}

// GetChain returns a chain's members ordered by open date.
func (s *SQLiteStore) GetChain(ctx context.Context, chainID string) ([]models.Position, error) {
	return s.GetPositions(ctx, PositionFilter{ChainID: chainID})
}

// RollPosition closes a member as rolled and opens its successor in the
// same chain, atomically. buyBackCost is the total cash paid to close
// the old member.
func (s *SQLiteStore) RollPosition(ctx context.Context, oldID string, buyBackCost float64, successor *models.Position) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting roll: %w", err)
	}
	defer tx.Rollback()

	var chainID string
	err = tx.QueryRowContext(ctx,
		`SELECT CASE WHEN chain_id = '' THEN id ELSE chain_id END
		 FROM positions WHERE id = ?`, oldID).Scan(&chainID)
	if err != nil {
		return fmt.Errorf("looking up position %s: %w", oldID, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE positions
		SET status = ?, close_reason = ?, buyback_cost = ?, chain_id = ?
		WHERE id = ?`,
		string(models.StatusClosed), string(models.CloseRolled),
		buyBackCost, chainID, oldID)
	if err != nil {
		return fmt.Errorf("closing rolled position: %w", err)
	}

	successor.ChainID = chainID
	successor.Status = models.StatusOpen
	_, err = tx.ExecContext(ctx, `
		INSERT INTO positions
		(id, ticker, strategy, strike, buy_strike, sell_strike, premium,
		 contracts, expiry, open_date, status, iv_snapshot, chain_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		successor.ID, successor.Ticker, string(successor.Strategy),
		successor.Strike, successor.BuyStrike, successor.SellStrike,
		successor.Premium, successor.Contracts, successor.Expiry,
		successor.OpenDate, string(successor.Status), successor.IVSnapshot,
		successor.ChainID)
	if err != nil {
		return fmt.Errorf("opening rolled position: %w", err)
	}

	return tx.Commit()
}

// ClosePosition marks a position closed or assigned with its reason and
// exit economics.
func (s *SQLiteStore) ClosePosition(ctx context.Context, id string, status models.PositionStatus, reason models.CloseReason, buyBackCost, closePrice float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE positions
		SET status = ?, close_reason = ?, buyback_cost = ?, close_price = ?
		WHERE id = ?`,
		string(status), string(reason), buyBackCost, closePrice, id)
	if err != nil {
		return fmt.Errorf("closing position %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("closing position %s: not found", id)
	}
	return nil
}

// SaveHolding inserts or replaces a holding.
func (s *SQLiteStore) SaveHolding(ctx context.Context, h *models.Holding) error {
	wants := 0
	if h.WantsAssignment {
		wants = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO holdings (ticker, shares, cost_basis, wants_assignment)
		VALUES (?, ?, ?, ?)`,
		h.Ticker, h.Shares, h.CostBasis, wants)
	if err != nil {
		return fmt.Errorf("saving holding %s: %w", h.Ticker, err)
	}
	return nil
}

// GetHoldings returns every holding keyed by ticker, the shape the risk
// classifier consumes.
func (s *SQLiteStore) GetHoldings(ctx context.Context) (map[string]*models.Holding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticker, shares, cost_basis, wants_assignment FROM holdings`)
	if err != nil {
		return nil, fmt.Errorf("querying holdings: %w", err)
	}
	defer rows.Close()

	holdings := make(map[string]*models.Holding)
	for rows.Next() {
		var h models.Holding
		var wants int
		if err := rows.Scan(&h.Ticker, &h.Shares, &h.CostBasis, &wants); err != nil {
			return nil, fmt.Errorf("scanning holding: %w", err)
		}
		h.WantsAssignment = wants != 0
		holdings[h.Ticker] = &h
	}
	return holdings, rows.Err()
}

// SaveQuote records a spot/IV snapshot for a ticker. An iv of zero
// means no implied volatility was recorded.
func (s *SQLiteStore) SaveQuote(ctx context.Context, ticker string, spot, iv float64, asOf time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO quotes (ticker, spot, iv, as_of) VALUES (?, ?, ?, ?)`,
		ticker, spot, iv, asOf)
	if err != nil {
		return fmt.Errorf("saving quote for %s: %w", ticker, err)
	}
	return nil
}

// GetQuote returns the recorded snapshot for a ticker.
func (s *SQLiteStore) GetQuote(ctx context.Context, ticker string) (spot, iv float64, asOf time.Time, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT spot, iv, as_of FROM quotes WHERE ticker = ?`, ticker)
	if err = row.Scan(&spot, &iv, &asOf); err != nil {
		if err == sql.ErrNoRows {
			err = errors.ErrNoMarketData
		}
		return 0, 0, time.Time{}, fmt.Errorf("quote for %s: %w", ticker, err)
	}
	return spot, iv, asOf, nil
}
