package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skinledger/core/utils"
)

// CellRecord is the persisted form of one ledger cell.
type CellRecord struct {
	// Sheet is the logical sheet name; one table holds many sheets.
	Sheet string `gorm:"column:sheet;primaryKey;size:64"`
	// Row is the 1-based row number.
	Row int `gorm:"column:row;primaryKey"`
	// Col is the column in letters.
	Col string `gorm:"column:col;primaryKey;size:8"`
	// Value is the raw cell content.
	Value string `gorm:"column:value;size:1024"`
}

// TableName implements gorm's Tabler interface.
func (CellRecord) TableName() string { return "ledger_cells" }

// RequiredColumns lists the columns the cell table must carry; used by the
// database inspector before a run.
func RequiredColumns() []string { return []string{"sheet", "row", "col", "value"} }

// GormStore is a CellStore backed by a MySQL table through GORM.
type GormStore struct {
	db    *gorm.DB
	sheet string
}

// NewGormStore creates a cell store scoped to one sheet.
func NewGormStore(db *gorm.DB, sheet string) *GormStore {
	return &GormStore{db: db, sheet: sheet}
}

// GetCell returns the raw string stored at coord, or ErrCellNotFound.
func (s *GormStore) GetCell(ctx context.Context, coord Coordinate) (string, error) {
	var rec CellRecord
	err := s.db.WithContext(ctx).
		Where("sheet = ? AND `row` = ? AND col = ?", s.sheet, coord.Row, coord.Col).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrCellNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get cell %s: %w", coord, err)
	}
	return rec.Value, nil
}

// SetCell writes value at coord, overwriting any previous value.
func (s *GormStore) SetCell(ctx context.Context, coord Coordinate, value any) error {
	rec := CellRecord{
		Sheet: s.sheet,
		Row:   coord.Row,
		Col:   coord.Col,
		Value: utils.ToString(value),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sheet"}, {Name: "row"}, {Name: "col"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("set cell %s: %w", coord, err)
	}
	return nil
}

// MaxRow returns the highest row holding a non-empty value in col.
// "row" is a reserved word in MySQL 8, so the hand-written fragments
// here and in GetCell must quote it.
func (s *GormStore) MaxRow(ctx context.Context, col string) (int, error) {
	var max *int
	err := s.db.WithContext(ctx).
		Model(&CellRecord{}).
		Select("MAX(`row`)").
		Where("sheet = ? AND col = ? AND value <> ''", s.sheet, col).
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("max row for column %s: %w", col, err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
