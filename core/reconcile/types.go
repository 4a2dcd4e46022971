package reconcile

import (
	"context"
	"errors"

	"skinledger/core/detail"
	"skinledger/core/pricing"
)

// Run-level errors.
var (
	// ErrPartialInventory is returned when the inventory provider held
	// back items; a truncated snapshot must not mutate the ledger.
	ErrPartialInventory = errors.New("inventory returned fewer items than expected")
)

// Item is one inventory entry produced fresh each run. Grouping mode
// decides which of Quantity or InstanceID is meaningful; the two are
// never mixed within a run.
type Item struct {
	// Name is the free-text item name.
	Name string
	// Quantity is the stack size in by-name grouping.
	Quantity int
	// InstanceID is the unique id in by-instance grouping.
	InstanceID string
	// DetailHandle is the opaque reference for supplemental detail;
	// empty when the item has none.
	DetailHandle string
	// Condition, PatternSeed and Phase are optional inline detail data
	// some providers deliver with the inventory itself.
	Condition   *float64
	PatternSeed int
	Phase       string
}

// Inventory is the provider's snapshot plus the counters that make
// partial results detectable.
type Inventory struct {
	Items         []Item
	Returned      int
	ExpectedTotal int
}

// Partial reports whether the provider held back items.
func (inv Inventory) Partial() bool {
	return inv.ExpectedTotal > 0 && inv.Returned < inv.ExpectedTotal
}

// InventoryProvider fetches the ordered inventory snapshot for one
// account.
type InventoryProvider interface {
	FetchInventory(ctx context.Context, accountID, credential string) (Inventory, error)
}

// PriceSource serves one market document per (market, provider) key,
// typically through the TTL cache.
type PriceSource interface {
	Get(ctx context.Context, market, provider string) (pricing.Document, error)
}

// DetailFetcher retrieves the supplemental record behind a detail
// handle, with retry handled below this interface.
type DetailFetcher interface {
	Fetch(ctx context.Context, handle string) (detail.Record, error)
}

// Classification is the structured metadata extracted from an item name.
type Classification struct {
	// Category is the short type label (weapon abbreviation, "case", ...).
	Category string `json:"category"`
	// Subname is the display subname ("Redline", "Chroma 2").
	Subname string `json:"subname"`
	// Variant is the condition abbreviation ("ft"), empty when absent.
	Variant string `json:"variant"`
}

// Classifier turns item names into classifications and answers the
// multi-variant family marker check.
type Classifier interface {
	Classify(name string) Classification
	IsMultiVariant(name string) bool
}

// Stage labels a phase of the run for progress reporting.
type Stage string

const (
	StageInventory Stage = "inventory"
	StagePassOne   Stage = "pass1"
	StagePassTwo   Stage = "pass2"
	StageFlush     Stage = "flush"
	StageDone      Stage = "done"
)

// Progress is one fire-and-forget progress event. Sends never block the
// engine; a slow observer loses events rather than stalling the run.
type Progress struct {
	RunID    string `json:"run_id"`
	Stage    Stage  `json:"stage"`
	ItemName string `json:"item_name,omitempty"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
}
