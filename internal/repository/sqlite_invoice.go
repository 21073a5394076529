package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
)

// SQLiteInvoiceRepo implements InvoiceRepo using a SQLite database.
type SQLiteInvoiceRepo struct {
	db db.DBTX
}

func NewSQLiteInvoiceRepo(conn db.DBTX) *SQLiteInvoiceRepo {
	return &SQLiteInvoiceRepo{db: conn}
}

func (r *SQLiteInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	query := `INSERT INTO invoices (vendor, category, amount, date, anomaly_flag, anomaly_description)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		inv.Vendor,
		inv.Category,
		inv.Amount,
		formatTimestamp(inv.Date),
		boolToInt(inv.AnomalyFlag),
		inv.AnomalyDescription,
	)
	if err != nil {
		return fmt.Errorf("inserting invoice: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading invoice id: %w", err)
	}
	inv.ID = id
	return nil
}

// List returns matching invoices ordered by date, then id.
func (r *SQLiteInvoiceRepo) List(ctx context.Context, f InvoiceFilter) ([]domain.Invoice, error) {
	var where whereClause
	if f.Category != "" {
		where.add("category = ?", f.Category)
	}
	where.addTimeRange("date", f.From, f.To)
	if f.FlaggedOnly {
		where.add("anomaly_flag = 1")
	}

	query := `SELECT id, vendor, category, amount, date, anomaly_flag, anomaly_description
		FROM invoices` + where.String() + ` ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	out := []domain.Invoice{}
	for rows.Next() {
		var inv domain.Invoice
		var dateStr string
		var flag int
		if err := rows.Scan(&inv.ID, &inv.Vendor, &inv.Category, &inv.Amount, &dateStr,
			&flag, &inv.AnomalyDescription); err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}
		if inv.Date, err = parseTimestamp(dateStr); err != nil {
			return nil, fmt.Errorf("parsing invoice date: %w", err)
		}
		inv.AnomalyFlag = intToBool(flag)
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}
	return out, nil
}

// SetAnomaly records the outcome of an anomaly scan on one invoice.
func (r *SQLiteInvoiceRepo) SetAnomaly(ctx context.Context, id int64, flagged bool, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET anomaly_flag = ?, anomaly_description = ? WHERE id = ?`,
		boolToInt(flagged), description, id)
	if err != nil {
		return fmt.Errorf("flagging invoice: %w", err)
	}
	return requireAffected(res, "invoice", id)
}
