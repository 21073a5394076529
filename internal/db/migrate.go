package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

func setupGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return nil
}

// Migrate applies all pending schema migrations. Applied migrations are
// recorded by goose, so repeated calls are no-ops.
func Migrate(db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the version of the newest applied migration.
func SchemaVersion(db *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
