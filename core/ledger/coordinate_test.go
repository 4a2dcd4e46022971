package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    Coordinate
		wantErr bool
	}{
		{"A1", Coordinate{"A", 1}, false},
		{"b12", Coordinate{"B", 12}, false},
		{"AA3", Coordinate{"AA", 3}, false},
		{" C7 ", Coordinate{"C", 7}, false},
		{"", Coordinate{}, true},
		{"12", Coordinate{}, true},
		{"AB", Coordinate{}, true},
		{"A0", Coordinate{}, true},
		{"A-1", Coordinate{}, true},
		{"A1B", Coordinate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoordinate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadCoordinate)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoordinateString(t *testing.T) {
	assert.Equal(t, "AB12", Cell("ab", 12).String())
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, Cell("A", 1).Valid())
	assert.False(t, Coordinate{Col: "A", Row: 0}.Valid())
	assert.False(t, Coordinate{Col: "", Row: 3}.Valid())
}
