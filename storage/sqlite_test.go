package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"autocatalog/core"
)

// setupTestSQLite creates a test SQLite database
func setupTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	logger := zap.NewNop().Sugar()

	sqlite, err := NewSQLite(dbPath, logger)
	require.NoError(t, err, "Failed to create SQLite database")
	require.NotNil(t, sqlite)
	t.Cleanup(func() { _ = sqlite.Close() })

	return sqlite
}

func TestNewSQLite_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := zap.NewNop().Sugar()

	sqlite, err := NewSQLite(dbPath, logger)
	require.NoError(t, err)
	require.NotNil(t, sqlite.WriteDB)
	require.NotNil(t, sqlite.ReadDB)
	assert.Equal(t, dbPath, sqlite.Path)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")

	assert.NoError(t, sqlite.Close())
}

func TestNewSQLite_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")
	logger := zap.NewNop().Sugar()

	sqlite, err := NewSQLite(dbPath, logger)
	require.NoError(t, err, "Should create parent directories")
	defer sqlite.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewSQLite_ForeignKeysEnabled(t *testing.T) {
	sqlite := setupTestSQLite(t)

	var enabled int
	err := sqlite.WriteDB.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	assert.Equal(t, 1, enabled)
}

func TestWithTransaction_Commit(t *testing.T) {
	sqlite := setupTestSQLite(t)
	ctx := context.Background()

	err := sqlite.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO brands (name) VALUES ('Audi')")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, sqlite.WriteDB.QueryRow("SELECT COUNT(*) FROM brands").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	sqlite := setupTestSQLite(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := sqlite.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO brands (name) VALUES ('Audi')"); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, sqlite.WriteDB.QueryRow("SELECT COUNT(*) FROM brands").Scan(&count))
	assert.Equal(t, 0, count, "insert should be rolled back")
}

func TestFormatAndParseTime_RoundTrip(t *testing.T) {
	original := time.Date(2020, 6, 15, 13, 45, 0, 0, time.UTC)
	parsed, err := parseTime(formatTime(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}

func TestMapConstraintError(t *testing.T) {
	assert.ErrorIs(t,
		mapConstraintError(errors.New("constraint failed: UNIQUE constraint failed: cars.serial_number (2067)")),
		ErrDuplicateSerialNumber)
	assert.ErrorIs(t,
		mapConstraintError(errors.New("constraint failed: UNIQUE constraint failed: brands.name (2067)")),
		ErrDuplicateName)
	assert.ErrorIs(t,
		mapConstraintError(errors.New("constraint failed: FOREIGN KEY constraint failed (787)")),
		ErrConstraintViolation)

	other := errors.New("disk I/O error")
	assert.Equal(t, other, mapConstraintError(other))
	assert.NoError(t, mapConstraintError(nil))
}

func TestOrderClause(t *testing.T) {
	whitelist := map[string]string{"id": "c.id", "modelName": "m.name"}

	clause, err := orderClause(whitelist, core.PageRequest{SortBy: "modelName", Direction: core.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY m.name DESC", clause)

	clause, err = orderClause(whitelist, core.PageRequest{SortBy: "id", Direction: core.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY c.id ASC", clause)

	_, err = orderClause(whitelist, core.PageRequest{SortBy: "color; DROP TABLE cars"})
	assert.ErrorIs(t, err, ErrInvalidSortField)
}
