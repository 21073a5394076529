package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
)

// SQLiteEventRepo implements EventRepo using a SQLite database.
type SQLiteEventRepo struct {
	db db.DBTX
}

func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

const eventColumns = `id, project_id, title, date, event_type, category, amount`

func (r *SQLiteEventRepo) Create(ctx context.Context, ev *domain.ProjectEvent) error {
	query := `INSERT INTO project_events (project_id, title, date, event_type, category, amount)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		ev.ProjectID,
		ev.Title,
		formatTimestamp(ev.Date),
		string(ev.Type),
		nullableString(ev.Category),
		nullableFloat(ev.Amount),
	)
	if err != nil {
		return fmt.Errorf("inserting project event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project event id: %w", err)
	}
	ev.ID = id
	return nil
}

func (r *SQLiteEventRepo) GetByID(ctx context.Context, id int64) (*domain.ProjectEvent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM project_events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project event %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &ev, nil
}

// List returns matching events ordered by date, then id.
func (r *SQLiteEventRepo) List(ctx context.Context, f EventFilter) ([]domain.ProjectEvent, error) {
	var where whereClause
	if f.ProjectID != nil {
		where.add("project_id = ?", *f.ProjectID)
	}
	if f.Type != "" {
		where.add("event_type = ?", string(f.Type))
	}
	if f.Category != "" {
		where.add("category = ?", f.Category)
	}
	where.addTimeRange("date", f.From, f.To)

	query := `SELECT ` + eventColumns + ` FROM project_events` + where.String() + ` ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("listing project events: %w", err)
	}
	defer rows.Close()

	out := []domain.ProjectEvent{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project events: %w", err)
	}
	return out, nil
}

func (r *SQLiteEventRepo) Update(ctx context.Context, ev *domain.ProjectEvent) error {
	query := `UPDATE project_events SET title = ?, date = ?, event_type = ?, category = ?, amount = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		ev.Title,
		formatTimestamp(ev.Date),
		string(ev.Type),
		nullableString(ev.Category),
		nullableFloat(ev.Amount),
		ev.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project event: %w", err)
	}
	return requireAffected(res, "project event", ev.ID)
}

func scanEvent(s rowScanner) (domain.ProjectEvent, error) {
	var ev domain.ProjectEvent
	var dateStr, typeStr string
	var category sql.NullString
	var amount sql.NullFloat64

	if err := s.Scan(&ev.ID, &ev.ProjectID, &ev.Title, &dateStr, &typeStr, &category, &amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ev, err
		}
		return ev, fmt.Errorf("scanning project event: %w", err)
	}

	date, err := parseTimestamp(dateStr)
	if err != nil {
		return ev, fmt.Errorf("parsing event date: %w", err)
	}
	ev.Date = date
	ev.Type = domain.EventType(typeStr)
	if category.Valid {
		ev.Category = &category.String
	}
	if amount.Valid {
		ev.Amount = &amount.Float64
	}
	return ev, nil
}
