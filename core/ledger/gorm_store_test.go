package ledger

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	return NewGormStore(db, "main"), mock
}

func TestGormStoreGetCell(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows([]string{"sheet", "row", "col", "value"}).
			AddRow("main", 2, "A", "AWP | Asiimov")
		// The row column must be backtick-quoted: bare "row" is a
		// reserved word on MySQL 8 and the statement would not parse.
		mock.ExpectQuery("SELECT \\* FROM `ledger_cells` WHERE sheet = \\? AND `row` = \\? AND col = \\?").
			WithArgs("main", 2, "A", 1).
			WillReturnRows(rows)

		v, err := store.GetCell(context.Background(), Cell("A", 2))
		require.NoError(t, err)
		assert.Equal(t, "AWP | Asiimov", v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing cell", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT \\* FROM `ledger_cells`").
			WillReturnRows(sqlmock.NewRows([]string{"sheet", "row", "col", "value"}))

		_, err := store.GetCell(context.Background(), Cell("B", 9))
		assert.ErrorIs(t, err, ErrCellNotFound)
	})
}

func TestGormStoreSetCell(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `ledger_cells`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.SetCell(context.Background(), Cell("C", 4), 31.24)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreMaxRow(t *testing.T) {
	t.Run("populated column", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT MAX\\(`row`\\) FROM `ledger_cells` WHERE sheet = \\? AND col = \\?").
			WithArgs("main", "A").
			WillReturnRows(sqlmock.NewRows([]string{"MAX(`row`)"}).AddRow(17))

		max, err := store.MaxRow(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, 17, max)
	})

	t.Run("empty column returns zero", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT MAX\\(`row`\\) FROM `ledger_cells`").
			WillReturnRows(sqlmock.NewRows([]string{"MAX(`row`)"}).AddRow(nil))

		max, err := store.MaxRow(context.Background(), "Z")
		require.NoError(t, err)
		assert.Equal(t, 0, max)
	})
}
