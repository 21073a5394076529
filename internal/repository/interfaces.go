package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/sitewise/internal/domain"
)

// LaborFilter narrows a labor listing. Zero-valued fields do not filter.
type LaborFilter struct {
	ProjectID   *int64
	From        *time.Time
	To          *time.Time
	Billable    *bool
	PayrollCode string
}

type EventFilter struct {
	ProjectID *int64
	Type      domain.EventType
	Category  string
	From      *time.Time
	To        *time.Time
}

type InvoiceFilter struct {
	Category    string
	From        *time.Time
	To          *time.Time
	FlaggedOnly bool
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SetActualHours(ctx context.Context, id int64, hours float64) error
}

type LaborRepo interface {
	Create(ctx context.Context, rec *domain.LaborRecord) error
	List(ctx context.Context, f LaborFilter) ([]domain.LaborRecord, error)
}

type EventRepo interface {
	Create(ctx context.Context, ev *domain.ProjectEvent) error
	GetByID(ctx context.Context, id int64) (*domain.ProjectEvent, error)
	List(ctx context.Context, f EventFilter) ([]domain.ProjectEvent, error)
	Update(ctx context.Context, ev *domain.ProjectEvent) error
}

type InvoiceRepo interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	List(ctx context.Context, f InvoiceFilter) ([]domain.Invoice, error)
	SetAnomaly(ctx context.Context, id int64, flagged bool, description string) error
}

type UnionRepo interface {
	Create(ctx context.Context, u *domain.Union) error
	List(ctx context.Context) ([]domain.Union, error)
	CreateRate(ctx context.Context, r *domain.UnionRate) error
	ListRates(ctx context.Context) ([]domain.UnionRate, error)
}

type MediaRepo interface {
	Create(ctx context.Context, m *domain.ProjectMedia) error
	ListByProject(ctx context.Context, projectID int64) ([]domain.ProjectMedia, error)
}
