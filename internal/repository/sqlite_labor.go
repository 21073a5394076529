package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
)

// SQLiteLaborRepo implements LaborRepo using a SQLite database.
type SQLiteLaborRepo struct {
	db db.DBTX
}

func NewSQLiteLaborRepo(conn db.DBTX) *SQLiteLaborRepo {
	return &SQLiteLaborRepo{db: conn}
}

func (r *SQLiteLaborRepo) Create(ctx context.Context, rec *domain.LaborRecord) error {
	query := `INSERT INTO labor_records (project_id, employee_id, date, hours, payroll_code, is_billable)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		rec.ProjectID,
		rec.EmployeeID,
		formatTimestamp(rec.Date),
		rec.Hours,
		rec.PayrollCode,
		boolToInt(rec.IsBillable),
	)
	if err != nil {
		return fmt.Errorf("inserting labor record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading labor record id: %w", err)
	}
	rec.ID = id
	return nil
}

// List returns matching labor records ordered by date, then id.
func (r *SQLiteLaborRepo) List(ctx context.Context, f LaborFilter) ([]domain.LaborRecord, error) {
	var where whereClause
	if f.ProjectID != nil {
		where.add("project_id = ?", *f.ProjectID)
	}
	where.addTimeRange("date", f.From, f.To)
	if f.Billable != nil {
		where.add("is_billable = ?", boolToInt(*f.Billable))
	}
	if f.PayrollCode != "" {
		where.add("payroll_code = ?", f.PayrollCode)
	}

	query := `SELECT id, project_id, employee_id, date, hours, payroll_code, is_billable
		FROM labor_records` + where.String() + ` ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("listing labor records: %w", err)
	}
	defer rows.Close()

	out := []domain.LaborRecord{}
	for rows.Next() {
		var rec domain.LaborRecord
		var dateStr string
		var billable int
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.EmployeeID, &dateStr,
			&rec.Hours, &rec.PayrollCode, &billable); err != nil {
			return nil, fmt.Errorf("scanning labor record: %w", err)
		}
		if rec.Date, err = parseTimestamp(dateStr); err != nil {
			return nil, fmt.Errorf("parsing labor date: %w", err)
		}
		rec.IsBillable = intToBool(billable)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labor records: %w", err)
	}
	return out, nil
}
