package analytics

import (
	"sort"
	"time"

	"github.com/alexanderramin/sitewise/internal/domain"
)

// ProjectProductivity splits a project's labor hours into billable and
// overhead.
type ProjectProductivity struct {
	ProjectID     int64   `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	BillableHours float64 `json:"billable_hours"`
	OverheadHours float64 `json:"overhead_hours"`
	Delta         float64 `json:"delta"`
}

type hourSplit struct {
	billable float64
	overhead float64
}

func (h *hourSplit) add(rec domain.LaborRecord) {
	if rec.IsBillable {
		h.billable += rec.Hours
	} else {
		h.overhead += rec.Hours
	}
}

func (h hourSplit) total() float64 {
	return h.billable + h.overhead
}

func splitByProject(labor []domain.LaborRecord) map[int64]*hourSplit {
	splits := make(map[int64]*hourSplit)
	for _, rec := range labor {
		s, ok := splits[rec.ProjectID]
		if !ok {
			s = &hourSplit{}
			splits[rec.ProjectID] = s
		}
		s.add(rec)
	}
	return splits
}

// ProductivityStats returns one row per project, in the order the projects
// are given. Projects without labor report zero hours.
func ProductivityStats(labor []domain.LaborRecord, projects []domain.Project) []ProjectProductivity {
	splits := splitByProject(labor)

	stats := make([]ProjectProductivity, 0, len(projects))
	for _, p := range projects {
		var s hourSplit
		if found, ok := splits[p.ID]; ok {
			s = *found
		}
		stats = append(stats, ProjectProductivity{
			ProjectID:     p.ID,
			ProjectName:   p.Name,
			BillableHours: s.billable,
			OverheadHours: s.overhead,
			Delta:         s.billable - s.overhead,
		})
	}
	return stats
}

// LaborTotals is the portfolio-wide billable/overhead split.
type LaborTotals struct {
	BillableHours float64  `json:"billable"`
	OverheadHours float64  `json:"overhead"`
	Projects      []string `json:"projects"`
}

// EfficiencyPct is billable hours as a percentage of all hours.
func (t LaborTotals) EfficiencyPct() float64 {
	return safeRatio(t.BillableHours, t.BillableHours+t.OverheadHours) * 100
}

func TotalAggregates(labor []domain.LaborRecord, projects []domain.Project) LaborTotals {
	var s hourSplit
	for _, rec := range labor {
		s.add(rec)
	}
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return LaborTotals{
		BillableHours: s.billable,
		OverheadHours: s.overhead,
		Projects:      names,
	}
}

// PayrollEstimate projects next week's payroll from recent activity.
type PayrollEstimate struct {
	EstimatedWeeklyPayroll float64 `json:"estimated_weekly_payroll"`
	ActiveEmployees        int     `json:"active_employees"`
	AvgHourlyRate          float64 `json:"avg_hourly_rate"`
	ProjectedHours         float64 `json:"projected_hours"`
}

// PayrollProjection averages the hours logged in the trailing window into a
// weekly figure and prices it at the configured rate. Records dated exactly
// at the window start are included.
func PayrollProjection(labor []domain.LaborRecord, now time.Time, cfg Config) PayrollEstimate {
	est := PayrollEstimate{AvgHourlyRate: cfg.HourlyRate}
	if cfg.WindowDays <= 0 {
		return est
	}

	since := now.AddDate(0, 0, -cfg.WindowDays)
	perEmployee := make(map[string]float64)
	for _, rec := range labor {
		if rec.Date.Before(since) {
			continue
		}
		perEmployee[rec.EmployeeID] += rec.Hours
	}
	if len(perEmployee) == 0 {
		return est
	}

	var windowHours float64
	for _, id := range sortedKeys(perEmployee) {
		windowHours += perEmployee[id]
	}

	weekly := windowHours / float64(cfg.WindowDays) * 7
	est.ActiveEmployees = len(perEmployee)
	est.ProjectedHours = weekly
	est.EstimatedWeeklyPayroll = weekly * cfg.HourlyRate
	return est
}

// EmployeeHours is one employee's hour roll-up.
type EmployeeHours struct {
	EmployeeID string  `json:"employee_id"`
	TotalHours float64 `json:"total_hours"`
	DaysWorked int     `json:"days_worked"`
}

// EmployeeRollup totals hours and distinct working days per employee. When
// projectID is non-nil both figures cover that project only. Results are
// ordered by employee id.
func EmployeeRollup(labor []domain.LaborRecord, projectID *int64) []EmployeeHours {
	type acc struct {
		hours float64
		days  map[string]struct{}
	}
	byEmployee := make(map[string]*acc)
	for _, rec := range labor {
		if projectID != nil && rec.ProjectID != *projectID {
			continue
		}
		a, ok := byEmployee[rec.EmployeeID]
		if !ok {
			a = &acc{days: make(map[string]struct{})}
			byEmployee[rec.EmployeeID] = a
		}
		a.hours += rec.Hours
		a.days[rec.Date.UTC().Format("2006-01-02")] = struct{}{}
	}

	out := make([]EmployeeHours, 0, len(byEmployee))
	for id, a := range byEmployee {
		out = append(out, EmployeeHours{
			EmployeeID: id,
			TotalHours: a.hours,
			DaysWorked: len(a.days),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}
