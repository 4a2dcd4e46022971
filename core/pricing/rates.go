package pricing

import (
	"fmt"
	"strings"

	"skinledger/core/utils"
)

// DefaultCurrency is the currency market documents are denominated in.
const DefaultCurrency = "USD"

// RateTable maps ISO currency codes to their USD-relative rate.
type RateTable map[string]float64

// Rate returns the multiplier for converting USD prices into the given
// currency. The default currency always resolves to 1; any other code
// must be present in the table.
func (t RateTable) Rate(code string) (float64, error) {
	if code == "" || code == DefaultCurrency {
		return 1, nil
	}
	rate, ok := t[code]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no exchange rate for currency %q", code)
	}
	return rate, nil
}

// ParseRateTable parses a "CODE:rate,CODE:rate" configuration string.
// An empty string yields an empty table.
func ParseRateTable(s string) (RateTable, error) {
	table := make(RateTable)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, raw, ok := strings.Cut(pair, ":")
		code = strings.ToUpper(strings.TrimSpace(code))
		rate := utils.ToFloat(raw)
		if !ok || code == "" || rate <= 0 {
			return nil, fmt.Errorf("bad exchange rate entry %q", pair)
		}
		table[code] = rate
	}
	return table, nil
}
