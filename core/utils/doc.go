// Package utils provides small conversion helpers shared across the
// application.
//
// # Cell Value Conversion
//
// Ledger cells are stored as raw strings. ToInt, ToFloat, ToString and
// ToBool normalize whatever the cell store hands back (strings, byte
// slices, numeric types) into the type the caller needs, without ever
// returning an error: unparsable input yields the zero value.
//
// # Column Letters
//
// ColumnToIndex and IndexToColumn implement the base-26 spreadsheet
// column addressing scheme (A=1 ... Z=26, AA=27) used by ledger
// coordinates.
package utils
