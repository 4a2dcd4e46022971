package detail

// Record is the supplemental per-unit data returned by the detail
// provider. It is ephemeral: the engine folds it into ledger row fields.
type Record struct {
	// Condition is the wear value in [0, 1]; nil when unavailable.
	Condition *float64 `json:"condition,omitempty"`
	// PatternSeed is the paint seed; 0 means absent.
	PatternSeed int `json:"pattern_seed,omitempty"`
	// Phase names the multi-variant phase, empty when the item has none.
	Phase string `json:"phase,omitempty"`
}

// HasCondition reports whether the record carries a wear value inside
// the valid range.
func (r Record) HasCondition() bool {
	return r.Condition != nil && *r.Condition >= 0 && *r.Condition <= 1
}
