package ledger

import (
	"context"
	"errors"
)

// Store operation errors.
var (
	// ErrCellNotFound is returned by a CellStore when a cell has never
	// been written. The Sheet layer maps it to an empty string.
	ErrCellNotFound = errors.New("cell not found")
	// ErrBadCoordinate is returned for malformed A1-style references.
	ErrBadCoordinate = errors.New("invalid cell coordinate")
)

// CellStore provides raw cell-level access to one persisted ledger sheet.
// Implementations must treat values as opaque strings; all typing happens
// above this interface.
type CellStore interface {
	// GetCell returns the raw string stored at coord, or ErrCellNotFound.
	GetCell(ctx context.Context, coord Coordinate) (string, error)

	// SetCell writes value at coord, overwriting any previous value.
	// Numeric values are rendered without a trailing zero fraction.
	SetCell(ctx context.Context, coord Coordinate, value any) error

	// MaxRow returns the highest row number holding a non-empty value in
	// the given column, or 0 when the column is empty.
	MaxRow(ctx context.Context, col string) (int, error)
}
