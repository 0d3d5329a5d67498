package store

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"wheelhouse/internal/models"
)

// ExportCSV writes positions matching the filter to w as CSV.
func (s *SQLiteStore) ExportCSV(ctx context.Context, w io.Writer, filter PositionFilter) error {
	positions, err := s.GetPositions(ctx, filter)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&positions, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// ImportCSV reads positions from r and saves each one, returning the
// number imported.
func (s *SQLiteStore) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	var positions []models.Position
	if err := gocsv.Unmarshal(r, &positions); err != nil {
		return 0, fmt.Errorf("reading csv: %w", err)
	}

	for i := range positions {
		if err := s.SavePosition(ctx, &positions[i]); err != nil {
			return i, err
		}
	}
	return len(positions), nil
}
