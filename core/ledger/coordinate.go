package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"skinledger/core/utils"
)

// Coordinate addresses a single ledger cell using spreadsheet notation:
// column letters (base-26, A=1 ... Z=26, AA=27) plus a 1-based row number.
type Coordinate struct {
	// Col is the column in letters, always upper-case (e.g. "A", "AB").
	Col string
	// Row is the 1-based row number.
	Row int
}

// ParseCoordinate parses an A1-style cell reference like "B12" or "AA3".
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	split := 0
	for split < len(s) {
		c := s[split]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			split++
			continue
		}
		break
	}
	if split == 0 || split == len(s) {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}

	col := strings.ToUpper(s[:split])
	if _, err := utils.ColumnToIndex(col); err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}

	row, err := strconv.Atoi(s[split:])
	if err != nil || row < 1 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}

	return Coordinate{Col: col, Row: row}, nil
}

// Cell returns the coordinate for the given column letters and row.
func Cell(col string, row int) Coordinate {
	return Coordinate{Col: strings.ToUpper(col), Row: row}
}

// String renders the coordinate in A1 notation.
func (c Coordinate) String() string {
	return fmt.Sprintf("%s%d", c.Col, c.Row)
}

// Valid reports whether the coordinate has well-formed column letters and
// a positive row.
func (c Coordinate) Valid() bool {
	if c.Row < 1 {
		return false
	}
	_, err := utils.ColumnToIndex(c.Col)
	return err == nil
}
