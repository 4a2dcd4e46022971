package database

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockDB opens a gorm connection over sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func columnRows(fields ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, f := range fields {
		rows.AddRow(f, "varchar(255)", "YES", "", nil, "")
	}
	return rows
}

func TestVerifyTable(t *testing.T) {
	t.Run("all columns present", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `ledger_cells`").
			WillReturnRows(columnRows("sheet", "row", "col", "value"))

		err := VerifyTable(db, "ledger_cells", []string{"sheet", "row", "col", "value"})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing column reported by name", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `ledger_cells`").
			WillReturnRows(columnRows("sheet", "row"))

		err := VerifyTable(db, "ledger_cells", []string{"sheet", "row", "col", "value"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "col")
		assert.Contains(t, err.Error(), "value")
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `ledger_cells`").
			WillReturnRows(columnRows("Sheet", "Row"))

		err := VerifyTable(db, "ledger_cells", []string{"sheet", "ROW"})
		assert.NoError(t, err)
	})

	t.Run("missing table", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `nope`").
			WillReturnError(assert.AnError)

		err := VerifyTable(db, "nope", []string{"sheet"})
		assert.Error(t, err)
	})
}
