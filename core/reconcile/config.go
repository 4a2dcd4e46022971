package reconcile

import (
	"fmt"
	"strings"

	"skinledger/core/ledger"
	"skinledger/core/pricing"
	"skinledger/core/utils"
)

// Grouping modes. Fixed before a run starts and never mixed.
const (
	GroupByName     = "name"
	GroupByInstance = "instance"
)

// Columns maps each logical ledger field to its column letters.
type Columns struct {
	// Name is the item name column.
	Name string `mapstructure:"name" default:"A"`
	// Quantity is the stack size column (by-name grouping).
	Quantity string `mapstructure:"quantity" default:"B"`
	// Category, Subname and Variant hold the classification.
	Category string `mapstructure:"category" default:"C"`
	Subname  string `mapstructure:"subname" default:"D"`
	Variant  string `mapstructure:"variant" default:"E"`
	// Phase holds the multi-variant phase when confirmed.
	Phase string `mapstructure:"phase" default:"F"`
	// Price and Market hold the selected quote.
	Price  string `mapstructure:"price" default:"G"`
	Market string `mapstructure:"market" default:"H"`
	// Condition, Pattern and DetailLink are per-unit fields cleared
	// whenever a row's quantity exceeds one.
	Condition  string `mapstructure:"condition" default:"I"`
	Pattern    string `mapstructure:"pattern" default:"J"`
	DetailLink string `mapstructure:"detail_link" default:"K"`
	// InstanceID keys rows in by-instance grouping.
	InstanceID string `mapstructure:"instance_id" default:"L"`
	// Sold marks rows excluded from repricing.
	Sold string `mapstructure:"sold" default:"M"`
}

// all returns every (label, letters) pair for validation.
func (c Columns) all() [][2]string {
	return [][2]string{
		{"name", c.Name}, {"quantity", c.Quantity}, {"category", c.Category},
		{"subname", c.Subname}, {"variant", c.Variant}, {"phase", c.Phase},
		{"price", c.Price}, {"market", c.Market}, {"condition", c.Condition},
		{"pattern", c.Pattern}, {"detail_link", c.DetailLink},
		{"instance_id", c.InstanceID}, {"sold", c.Sold},
	}
}

// Config holds the run options for the reconciliation engine.
type Config struct {
	// GroupBy selects the grouping mode: "name" or "instance".
	GroupBy string `mapstructure:"group_by" default:"name"`
	// RowOffset is added to the existing row count when appending; it
	// accounts for header rows above the data.
	RowOffset int `mapstructure:"row_offset" default:"1"`
	// WriteStopRow, when positive, is the boundary at and beyond which
	// nothing is written and no rows are inserted.
	WriteStopRow int `mapstructure:"write_stop_row" default:"0"`
	// IgnoreNames lists item names the refresh pass leaves alone.
	IgnoreNames []string `mapstructure:"ignore_names"`
	// ExcludeSold skips rows with a sold marker during the refresh pass.
	ExcludeSold bool `mapstructure:"exclude_sold" default:"true"`
	// FetchDetails enables the detail enrichment fetcher.
	FetchDetails bool `mapstructure:"fetch_details" default:"true"`
	// PriceKind names the price field consulted in market documents.
	PriceKind string `mapstructure:"price_kind" default:"starting_at"`
	// SelectionMode aggregates quotes: cheapest, most_expensive,
	// random, hierarchical.
	SelectionMode string `mapstructure:"selection_mode" default:"cheapest"`
	// PercentThreshold is the 0-100 hierarchical walk threshold.
	PercentThreshold float64 `mapstructure:"percent_threshold" default:"80"`
	// Markets is the ordered market list; order breaks quote ties.
	Markets []string `mapstructure:"markets" default:"steam,buff163,skinport"`
	// PhaseMarkets lists the markets capable of multi-variant pricing.
	PhaseMarkets []string `mapstructure:"phase_markets" default:"buff163"`
	// PriceProvider is the market data provider the cache is keyed on.
	PriceProvider string `mapstructure:"price_provider" default:"pricekit"`
	// Currency selects the output currency; non-USD requires a rate
	// table entry.
	Currency string `mapstructure:"currency" default:"USD"`
	// Rates lists USD-relative exchange rates as "EUR:0.92,CNY:7.2".
	Rates string `mapstructure:"rates" default:""`
	// ManualRateCell optionally names a ledger cell holding a manual
	// exchange rate, consulted only for the default currency.
	ManualRateCell string `mapstructure:"manual_rate_cell" default:""`

	Columns Columns `mapstructure:"columns"`
}

// Validate checks the run configuration and reports every problem found
// in one combined error. It runs before any network access.
func (c *Config) Validate() error {
	var errs []string

	if c.GroupBy != GroupByName && c.GroupBy != GroupByInstance {
		errs = append(errs, fmt.Sprintf("group_by must be %q or %q, got %q", GroupByName, GroupByInstance, c.GroupBy))
	}
	if c.RowOffset < 0 {
		errs = append(errs, fmt.Sprintf("row_offset must be >= 0, got %d", c.RowOffset))
	}
	if c.WriteStopRow < 0 {
		errs = append(errs, fmt.Sprintf("write_stop_row must be >= 0, got %d", c.WriteStopRow))
	}
	if c.PercentThreshold < 0 || c.PercentThreshold > 100 {
		errs = append(errs, fmt.Sprintf("percent_threshold must be within 0-100, got %v", c.PercentThreshold))
	}
	if _, err := pricing.ParseMode(c.SelectionMode); err != nil {
		errs = append(errs, err.Error())
	}
	if len(c.Markets) == 0 {
		errs = append(errs, "markets must list at least one market")
	}
	if _, err := pricing.ParseRateTable(c.Rates); err != nil {
		errs = append(errs, err.Error())
	}
	if c.ManualRateCell != "" {
		if _, err := ledger.ParseCoordinate(c.ManualRateCell); err != nil {
			errs = append(errs, fmt.Sprintf("manual_rate_cell: %v", err))
		}
	}

	seen := make(map[string]string)
	for _, pair := range c.Columns.all() {
		label, letters := pair[0], pair[1]
		if _, err := utils.ColumnToIndex(letters); err != nil {
			errs = append(errs, fmt.Sprintf("column %s: %v", label, err))
			continue
		}
		norm := strings.ToUpper(strings.TrimSpace(letters))
		if other, ok := seen[norm]; ok {
			errs = append(errs, fmt.Sprintf("column %s collides with %s on %q", label, other, norm))
			continue
		}
		seen[norm] = label
	}

	if len(errs) > 0 {
		return fmt.Errorf("run configuration invalid:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ignored reports whether name is on the ignore list.
func (c *Config) ignored(name string) bool {
	for _, n := range c.IgnoreNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// PhaseSupport builds the selector capability set from the configured
// phase-capable market list.
func (c *Config) PhaseSupport() map[string]bool {
	out := make(map[string]bool, len(c.PhaseMarkets))
	for _, m := range c.PhaseMarkets {
		out[m] = true
	}
	return out
}
