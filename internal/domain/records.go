package domain

import (
	"strings"
	"time"
)

// LaborRecord is one employee's hours on one project for one day.
type LaborRecord struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id" validate:"gt=0"`
	EmployeeID  string    `json:"employee_id" validate:"required"`
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours" validate:"finite,gte=0"`
	PayrollCode string    `json:"payroll_code"`
	IsBillable  bool      `json:"is_billable"`
}

// ProjectEvent is a dated entry on a project's timeline. Only payment and
// expense events carry a meaningful Amount.
type ProjectEvent struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Title     string    `json:"title" validate:"required"`
	Date      time.Time `json:"date"`
	Type      EventType `json:"event_type" validate:"oneof=payment expense inspection milestone"`
	Category  *string   `json:"category,omitempty"`
	Amount    *float64  `json:"amount,omitempty" validate:"omitempty,finite,gte=0"`
}

// MonetaryAmount returns the event amount, treating a missing amount as zero.
func (e *ProjectEvent) MonetaryAmount() float64 {
	if e.Amount == nil {
		return 0
	}
	return *e.Amount
}

// EventUpdate carries a partial update; nil fields are left unchanged.
type EventUpdate struct {
	Title    *string    `json:"title,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Type     *EventType `json:"event_type,omitempty"`
	Category *string    `json:"category,omitempty"`
	Amount   *float64   `json:"amount,omitempty"`
}

// Apply merges the update into e.
func (u EventUpdate) Apply(e *ProjectEvent) {
	e.Title = CoalesceStr(derefStr(u.Title), e.Title)
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Type != nil {
		e.Type = *u.Type
	}
	if u.Category != nil {
		// An empty category clears it.
		e.Category = StrPtr(strings.TrimSpace(*u.Category))
	}
	if u.Amount != nil {
		amount := *u.Amount
		e.Amount = &amount
	}
}

// Invoice is a vendor bill. Invoices are grouped by category for anomaly
// scanning; the category taxonomy is open.
type Invoice struct {
	ID                 int64     `json:"id"`
	Vendor             string    `json:"vendor"`
	Category           string    `json:"category" validate:"required"`
	Amount             float64   `json:"amount" validate:"finite,gte=0"`
	Date               time.Time `json:"date"`
	AnomalyFlag        bool      `json:"anomaly_flag"`
	AnomalyDescription string    `json:"anomaly_description,omitempty"`
}

type Union struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// UnionRate is one benefit rate of a union's schedule. A union has one rate
// per payroll code and benefit type.
type UnionRate struct {
	ID          int64   `json:"id"`
	UnionID     int64   `json:"union_id"`
	PayrollCode string  `json:"payroll_code" validate:"required"`
	Rate        float64 `json:"rate" validate:"finite,gte=0"`
	BenefitType string  `json:"benefit_type" validate:"required"`
}
