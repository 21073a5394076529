package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "labor_records", "project_events", "invoices", "unions", "union_rates", "project_media"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_labor_project",
		"idx_labor_date",
		"idx_labor_payroll_code",
		"idx_events_project",
		"idx_invoices_category",
		"idx_union_rates_union",
		"idx_media_project",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestOpenDB_ForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO labor_records (project_id, employee_id, date, hours) VALUES (999, 'E1', '2026-01-01', 8)`)
	assert.Error(t, err, "labor for a missing project must be rejected")
}

func TestOpenDB_CheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (name) VALUES ('Riverside Plaza')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO project_events (project_id, title, date, event_type) VALUES (1, 'x', '2026-01-01', 'refund')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO labor_records (project_id, employee_id, date, hours) VALUES (1, 'E1', '2026-01-01', -1)`)
	assert.Error(t, err)
}

func TestOpenDB_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sitewise.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
