package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
)

// SQLiteUnionRepo implements UnionRepo, covering unions and their rate
// schedules.
type SQLiteUnionRepo struct {
	db db.DBTX
}

func NewSQLiteUnionRepo(conn db.DBTX) *SQLiteUnionRepo {
	return &SQLiteUnionRepo{db: conn}
}

func (r *SQLiteUnionRepo) Create(ctx context.Context, u *domain.Union) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO unions (name, description) VALUES (?, ?)`, u.Name, u.Description)
	if err != nil {
		return fmt.Errorf("inserting union: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading union id: %w", err)
	}
	u.ID = id
	return nil
}

// List returns all unions ordered by id.
func (r *SQLiteUnionRepo) List(ctx context.Context) ([]domain.Union, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM unions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing unions: %w", err)
	}
	defer rows.Close()

	out := []domain.Union{}
	for rows.Next() {
		var u domain.Union
		if err := rows.Scan(&u.ID, &u.Name, &u.Description); err != nil {
			return nil, fmt.Errorf("scanning union: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unions: %w", err)
	}
	return out, nil
}

func (r *SQLiteUnionRepo) CreateRate(ctx context.Context, rate *domain.UnionRate) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO union_rates (union_id, payroll_code, rate, benefit_type) VALUES (?, ?, ?, ?)`,
		rate.UnionID, rate.PayrollCode, rate.Rate, rate.BenefitType)
	if err != nil {
		return fmt.Errorf("inserting union rate: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading union rate id: %w", err)
	}
	rate.ID = id
	return nil
}

// ListRates returns every rate row ordered by union, then id.
func (r *SQLiteUnionRepo) ListRates(ctx context.Context) ([]domain.UnionRate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, union_id, payroll_code, rate, benefit_type FROM union_rates ORDER BY union_id, id`)
	if err != nil {
		return nil, fmt.Errorf("listing union rates: %w", err)
	}
	defer rows.Close()

	out := []domain.UnionRate{}
	for rows.Next() {
		var rate domain.UnionRate
		if err := rows.Scan(&rate.ID, &rate.UnionID, &rate.PayrollCode, &rate.Rate, &rate.BenefitType); err != nil {
			return nil, fmt.Errorf("scanning union rate: %w", err)
		}
		out = append(out, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating union rates: %w", err)
	}
	return out, nil
}
