package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sitewise/internal/db"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func countProjects(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n))
	return n
}

func insertProject(ctx context.Context, tx db.DBTX, name string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects (name) VALUES (?)`, name)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "Riverside Plaza"); err != nil {
			return err
		}
		return insertProject(ctx, tx, "Harbor Tower")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countProjects(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "Riverside Plaza"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countProjects(t, database), "insert should be rolled back")
}

func TestWithinTx_RollbackOnConstraintViolation(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "Riverside Plaza"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO labor_records (project_id, employee_id, date, hours) VALUES (42, 'E1', '2026-01-01', 8)`)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, 0, countProjects(t, database))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "Riverside Plaza")
			panic("boom")
		})
	})
	assert.Equal(t, 0, countProjects(t, database), "insert should be rolled back after panic")
}

func TestSnapshot_DiscardsWrites(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.Snapshot(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertProject(ctx, tx, "Riverside Plaza")
	})
	require.NoError(t, err)
	assert.Equal(t, 0, countProjects(t, database))
}

func TestSnapshot_ReturnsCallbackError(t *testing.T) {
	_, uow := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.Snapshot(context.Background(), func(context.Context, db.DBTX) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestSnapshot_IgnoresConcurrentCommits(t *testing.T) {
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "sitewise.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	uow := db.NewSQLiteUnitOfWork(database)
	ctx := context.Background()
	require.NoError(t, insertProject(ctx, database, "Riverside Plaza"))

	var first, second int
	err = uow.Snapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&first); err != nil {
			return err
		}
		if err := insertProject(ctx, database, "Harbor Tower"); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&second)
	})

	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second, "snapshot should not see the later commit")
	assert.Equal(t, 2, countProjects(t, database))
}
