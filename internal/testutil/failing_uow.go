package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/sitewise/internal/db"
)

// FailOnNthExecUoW injects Err on the Nth write of a transaction so import
// and flagging tests can assert a full rollback.
//
// Writes are counted from 1. When Match is set, only statements containing
// Match (for example "INSERT INTO invoices") are counted. Reads pass through.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	// Calls reports how many counted writes were attempted in the last tx.
	Calls atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, owner: u}
	u.Calls.Store(0)
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// Snapshot reads are never counted.
func (u *FailOnNthExecUoW) Snapshot(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).Snapshot(ctx, fn)
}

type failOnNthExec struct {
	db.DBTX
	owner *FailOnNthExecUoW
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.owner.Match == "" || strings.Contains(query, f.owner.Match) {
		if f.owner.Calls.Add(1) == f.owner.FailOn {
			return nil, f.owner.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
