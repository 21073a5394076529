package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork scopes database work to one transaction. The callback
// receives a DBTX backed by a *sql.Tx and builds tx-scoped repositories
// from it.
//
// WithinTx commits when fn succeeds; snapshot import and invoice flagging
// write through it. Snapshot never commits: every read inside fn sees the
// same committed state, so the dashboard loads its six tables as one
// snapshot even while an import is running.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
	Snapshot(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork over SQLite. In WAL mode a read
// transaction pins the snapshot taken at its first SELECT.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (u *SQLiteUnitOfWork) Snapshot(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning snapshot: %w", err)
	}
	// Rollback after a successful read-only tx only ends it.
	defer func() { _ = tx.Rollback() }()

	return fn(ctx, tx)
}
