// Package ledger provides cell-addressed access to the persisted tabular
// ledger that mirrors inventory and pricing state.
//
// # Coordinates
//
// Cells are addressed in A1 notation: base-26 column letters (A=1 ...
// Z=26, AA=27) plus a 1-based row number. ParseCoordinate validates and
// normalizes references read from configuration.
//
// # Stores
//
// CellStore is the raw contract: GetCell, SetCell, MaxRow. Two
// implementations exist:
//
//   - GormStore persists cells in a MySQL table (sheet, row, col, value)
//     with upsert semantics.
//   - MemoryStore backs tests and dry runs.
//
// # Sheet
//
// Sheet is the in-run snapshot used by the reconciliation engine: reads
// are memoized, writes are buffered, and a single Flush at the end of a
// run commits everything. A failure before Flush discards all buffered
// work. Rows are never deleted through this package.
package ledger
