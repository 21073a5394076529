package domain

import "time"

// Project is a construction job. ActualHours is a cached roll-up of the
// project's labor hours; readers that need it must re-derive it from labor
// records rather than trust the stored value.
type Project struct {
	ID                      int64      `json:"id"`
	Name                    string     `json:"name" validate:"required"`
	Location                string     `json:"location,omitempty"`
	Manager                 string     `json:"manager,omitempty"`
	TotalBudget             float64    `json:"total_budget" validate:"finite,gte=0"`
	BudgetHours             float64    `json:"budget_hours" validate:"finite,gte=0"`
	ActualHours             float64    `json:"actual_hours" validate:"finite,gte=0"`
	StatusNotes             string     `json:"status_notes,omitempty"`
	StartDate               *time.Time `json:"start_date,omitempty"`
	OriginalCompletionDate  *time.Time `json:"original_completion_date,omitempty"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date,omitempty"`
}

// ScheduleSlipDays returns how many days the estimated completion trails the
// original completion date. Returns 0 when either date is unknown.
func (p *Project) ScheduleSlipDays() int {
	if p.OriginalCompletionDate == nil || p.EstimatedCompletionDate == nil {
		return 0
	}
	return int(p.EstimatedCompletionDate.Sub(*p.OriginalCompletionDate).Hours() / 24)
}

// ProjectMedia is file metadata attached to a project. The file bytes live
// with an external storage collaborator; only the reference is kept here.
type ProjectMedia struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Filename  string    `json:"filename" validate:"required"`
	FileType  MediaType `json:"file_type" validate:"oneof=image document"`
	URL       string    `json:"url" validate:"required"`
}
