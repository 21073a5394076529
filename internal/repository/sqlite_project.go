package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, name, location, manager, total_budget, budget_hours, actual_hours,
	status_notes, start_date, original_completion_date, estimated_completion_date`

// Create inserts the project and sets its ID.
func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (name, location, manager, total_budget, budget_hours, actual_hours,
		status_notes, start_date, original_completion_date, estimated_completion_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Location,
		p.Manager,
		p.TotalBudget,
		p.BudgetHours,
		p.ActualHours,
		p.StatusNotes,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.OriginalCompletionDate, dateLayout),
		nullableTimeToString(p.EstimatedCompletionDate, dateLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// List returns all projects ordered by id.
func (r *SQLiteProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, location = ?, manager = ?, total_budget = ?, budget_hours = ?,
		actual_hours = ?, status_notes = ?, start_date = ?, original_completion_date = ?,
		estimated_completion_date = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Location,
		p.Manager,
		p.TotalBudget,
		p.BudgetHours,
		p.ActualHours,
		p.StatusNotes,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.OriginalCompletionDate, dateLayout),
		nullableTimeToString(p.EstimatedCompletionDate, dateLayout),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

// SetActualHours overwrites the cached actual-hours roll-up.
func (r *SQLiteProjectRepo) SetActualHours(ctx context.Context, id int64, hours float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET actual_hours = ? WHERE id = ?`, hours, id)
	if err != nil {
		return fmt.Errorf("setting actual hours: %w", err)
	}
	return requireAffected(res, "project", id)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (domain.Project, error) {
	var p domain.Project
	var startStr, origStr, estStr sql.NullString

	err := s.Scan(
		&p.ID, &p.Name, &p.Location, &p.Manager,
		&p.TotalBudget, &p.BudgetHours, &p.ActualHours,
		&p.StatusNotes, &startStr, &origStr, &estStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scanning project: %w", err)
	}

	p.StartDate = parseNullableTime(startStr, dateLayout)
	p.OriginalCompletionDate = parseNullableTime(origStr, dateLayout)
	p.EstimatedCompletionDate = parseNullableTime(estStr, dateLayout)
	return p, nil
}

func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s update: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
