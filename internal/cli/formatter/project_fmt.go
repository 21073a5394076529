package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/service"
)

// FormatProjectList renders projects with their budget usage and schedule.
func FormatProjectList(projects []service.ProjectDetail, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Projects") + "\n\n")

	if len(projects) == 0 {
		b.WriteString(Dim("  No projects yet. Create one with 'sitewise project add'.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		due := Dim("--")
		if p.EstimatedCompletionDate != nil {
			due = RelativeDateFrom(*p.EstimatedCompletionDate, now)
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			Truncate(p.Name, 28),
			domain.CoalesceStr(p.Manager, "--"),
			RenderBudgetUsage(p.ActualHours, p.BudgetHours, 8),
			strconv.Itoa(len(p.Events)),
			due,
		})
	}
	b.WriteString(RenderTable(
		[]string{"ID", "PROJECT", "MANAGER", "HOURS", "EVENTS", "DUE"},
		rows, AlignRight(0, 4)))
	return b.String()
}

// FormatProjectDetail renders one project with its event timeline and media.
func FormatProjectDetail(p *service.ProjectDetail, now time.Time) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-11s", label)), value))
	}
	if p.Location != "" {
		line("Location", p.Location)
	}
	if p.Manager != "" {
		line("Manager", p.Manager)
	}
	line("Budget", fmt.Sprintf("%s  %s", Money(p.TotalBudget), Dim(Hours(p.BudgetHours)+" budgeted")))
	line("Hours", RenderBudgetUsage(p.ActualHours, p.BudgetHours, 12)+" "+Dim(Hours(p.ActualHours)))
	if p.EstimatedCompletionDate != nil {
		line("Due", fmt.Sprintf("%s %s  %s", ShortDate(*p.EstimatedCompletionDate),
			Dim("("+RelativeDateFrom(*p.EstimatedCompletionDate, now)+")"), SlipBadge(p.ScheduleSlipDays())))
	}
	if p.StatusNotes != "" {
		b.WriteString("\n" + p.StatusNotes + "\n")
	}

	if len(p.Events) > 0 {
		b.WriteString("\n" + StyleHeader.Render("TIMELINE") + "\n")
		for _, ev := range p.Events {
			amount := ""
			if ev.Amount != nil {
				amount = " " + eventAmount(ev)
			}
			b.WriteString(fmt.Sprintf("  %s  %s %s%s\n",
				Dim(ev.Date.Format("2006-01-02")), eventBadge(ev.Type), ev.Title, amount))
		}
	}

	if len(p.Media) > 0 {
		b.WriteString("\n" + StyleHeader.Render("MEDIA") + "\n")
		for _, m := range p.Media {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", Dim(string(m.FileType)), m.Filename, Dim(m.URL)))
		}
	}

	return RenderBox(p.Name, strings.TrimRight(b.String(), "\n")) + "\n"
}

func eventBadge(t domain.EventType) string {
	switch t {
	case domain.EventPayment:
		return StyleGreen.Render("[payment]   ")
	case domain.EventExpense:
		return StyleRed.Render("[expense]   ")
	case domain.EventInspection:
		return StyleBlue.Render("[inspection]")
	default:
		return StylePurple.Render("[milestone] ")
	}
}

func eventAmount(ev domain.ProjectEvent) string {
	text := Money(*ev.Amount)
	if ev.Category != nil && *ev.Category != "" {
		text += " " + Dim("("+*ev.Category+")")
	}
	if ev.Type == domain.EventExpense {
		return StyleRed.Render(text)
	}
	return text
}

// FormatEvent confirms a recorded event.
func FormatEvent(ev *domain.ProjectEvent) string {
	amount := ""
	if ev.Amount != nil {
		amount = " " + Money(*ev.Amount)
	}
	return fmt.Sprintf("%s Recorded %s %s%s on %s [event %d]\n",
		StyleGreen.Render("✔"), string(ev.Type), Bold(ev.Title), amount,
		ev.Date.Format("2006-01-02"), ev.ID)
}
