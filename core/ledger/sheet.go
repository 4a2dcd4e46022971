package ledger

import (
	"context"
	"errors"
	"fmt"

	"skinledger/core/utils"
)

// Sheet is the in-run snapshot of one ledger sheet. Reads are memoized;
// writes are buffered in memory and committed by a single Flush at the
// very end of a run. A run that fails before Flush leaves the persisted
// ledger untouched.
//
// Sheet is exclusively owned by the single in-progress run and is not
// safe for concurrent use.
type Sheet struct {
	store CellStore

	reads   map[Coordinate]string
	pending map[Coordinate]any
	order   []Coordinate
}

// NewSheet creates a snapshot over the given store.
func NewSheet(store CellStore) *Sheet {
	return &Sheet{
		store:   store,
		reads:   make(map[Coordinate]string),
		pending: make(map[Coordinate]any),
	}
}

// GetCell returns the current value at coord: a buffered write if one
// exists, otherwise the stored value. Cells never written read as "".
func (s *Sheet) GetCell(ctx context.Context, coord Coordinate) (string, error) {
	if v, ok := s.pending[coord]; ok {
		return utils.ToString(v), nil
	}
	if v, ok := s.reads[coord]; ok {
		return v, nil
	}
	v, err := s.store.GetCell(ctx, coord)
	if errors.Is(err, ErrCellNotFound) {
		s.reads[coord] = ""
		return "", nil
	}
	if err != nil {
		return "", err
	}
	s.reads[coord] = v
	return v, nil
}

// SetCell buffers a write. It is applied to the store only on Flush.
func (s *Sheet) SetCell(coord Coordinate, value any) {
	if _, ok := s.pending[coord]; !ok {
		s.order = append(s.order, coord)
	}
	s.pending[coord] = value
}

// MaxRow returns the highest row with a non-empty value in col, taking
// buffered writes into account so freshly appended rows count.
func (s *Sheet) MaxRow(ctx context.Context, col string) (int, error) {
	max, err := s.store.MaxRow(ctx, col)
	if err != nil {
		return 0, err
	}
	for coord, v := range s.pending {
		if coord.Col == col && utils.ToString(v) != "" && coord.Row > max {
			max = coord.Row
		}
	}
	return max, nil
}

// PendingWrites returns the number of buffered writes.
func (s *Sheet) PendingWrites() int { return len(s.pending) }

// Flush commits every buffered write to the store in the order the cells
// were first written, then clears the buffer.
func (s *Sheet) Flush(ctx context.Context) error {
	for _, coord := range s.order {
		if err := s.store.SetCell(ctx, coord, s.pending[coord]); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
	}
	s.pending = make(map[Coordinate]any)
	s.order = nil
	s.reads = make(map[Coordinate]string)
	return nil
}
