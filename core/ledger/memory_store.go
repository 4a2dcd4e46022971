package ledger

import (
	"context"

	"skinledger/core/utils"
)

// MemoryStore is an in-memory CellStore used in tests and dry runs.
type MemoryStore struct {
	cells map[Coordinate]string
}

// NewMemoryStore creates an empty in-memory cell store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cells: make(map[Coordinate]string)}
}

// GetCell returns the raw string stored at coord, or ErrCellNotFound.
func (s *MemoryStore) GetCell(_ context.Context, coord Coordinate) (string, error) {
	v, ok := s.cells[coord]
	if !ok {
		return "", ErrCellNotFound
	}
	return v, nil
}

// SetCell writes value at coord, overwriting any previous value.
func (s *MemoryStore) SetCell(_ context.Context, coord Coordinate, value any) error {
	s.cells[coord] = utils.ToString(value)
	return nil
}

// MaxRow returns the highest row holding a non-empty value in col.
func (s *MemoryStore) MaxRow(_ context.Context, col string) (int, error) {
	max := 0
	for coord, v := range s.cells {
		if coord.Col == col && v != "" && coord.Row > max {
			max = coord.Row
		}
	}
	return max, nil
}

// Len returns the number of stored cells.
func (s *MemoryStore) Len() int { return len(s.cells) }
