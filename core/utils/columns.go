package utils

import (
	"fmt"
	"strings"
)

// ColumnToIndex converts spreadsheet column letters to a 1-based index
// (A=1, Z=26, AA=27). It returns an error for empty input or any rune
// outside A-Z; lower-case letters are accepted and upper-cased.
func ColumnToIndex(col string) (int, error) {
	col = strings.ToUpper(strings.TrimSpace(col))
	if col == "" {
		return 0, fmt.Errorf("column letters must not be empty")
	}
	index := 0
	for _, r := range col {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column letters %q", col)
		}
		index = index*26 + int(r-'A'+1)
	}
	return index, nil
}

// IndexToColumn converts a 1-based column index to spreadsheet letters
// (1=A, 26=Z, 27=AA). Indices below 1 return an empty string.
func IndexToColumn(index int) string {
	if index < 1 {
		return ""
	}
	var b strings.Builder
	for index > 0 {
		index--
		b.WriteByte(byte('A' + index%26))
		index /= 26
	}
	// Built least-significant letter first; reverse.
	s := b.String()
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = s[len(s)-1-i]
	}
	return string(out)
}
