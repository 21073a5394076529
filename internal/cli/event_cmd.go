package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/cli/formatter"
	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/service"
)

var eventTypes = []domain.EventType{
	domain.EventPayment,
	domain.EventExpense,
	domain.EventInspection,
	domain.EventMilestone,
}

// eventInput holds event fields as typed, shared by flags and the form.
type eventInput struct {
	projectID string
	title     string
	eventType string
	date      string
	category  string
	amount    string
}

// complete reports whether every field without a default is filled in.
func (in eventInput) complete() bool {
	return in.projectID != "" && in.title != "" && in.eventType != ""
}

// toEvent parses the typed fields. An empty date means now.
func (in eventInput) toEvent(now time.Time) (int64, *domain.ProjectEvent, error) {
	projectID, err := parseID(in.projectID)
	if err != nil {
		return 0, nil, fmt.Errorf("project: %w", err)
	}

	ev := &domain.ProjectEvent{
		Title: strings.TrimSpace(in.title),
		Type:  domain.EventType(strings.ToLower(strings.TrimSpace(in.eventType))),
		Date:  now.UTC(),
	}
	if d, err := parseOptionalDate("event", strings.TrimSpace(in.date)); err != nil {
		return 0, nil, err
	} else if d != nil {
		ev.Date = *d
	}
	if c := strings.TrimSpace(in.category); c != "" {
		ev.Category = &c
	}
	if a := strings.TrimSpace(in.amount); a != "" {
		v, err := parseAmount(a)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid amount %q: %w", in.amount, err)
		}
		ev.Amount = &v
	}
	return projectID, ev, nil
}

var errNotFinite = errors.New("must be a finite number")

// parseAmount reads a dollar amount with an optional "$" prefix.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func newEventCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Record project timeline events",
	}

	cmd.AddCommand(
		newEventAddCmd(s),
		newEventUpdateCmd(s),
	)

	return cmd
}

func newEventAddCmd(s *session) *cobra.Command {
	var in eventInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a payment, expense, inspection or milestone",
		Long: `Record a payment, expense, inspection or milestone against a project.

On a terminal, missing fields are asked for in a form.`,
		Example: `  sitewise event add --project 1 --type payment --title "Draw 2" --amount 25000
  sitewise event add --project 1 --type expense --title "Rebar" --amount 4200 --category materials`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !in.complete() {
				if !s.app.interactive() {
					return fmt.Errorf("--project, --title and --type are required")
				}
				form, err := newEventForm(ctx, s.app, &in)
				if err != nil {
					return err
				}
				if err := form.Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}

			projectID, ev, err := in.toEvent(s.app.now())
			if err != nil {
				return err
			}
			if err := s.app.Reporting.AddEvent(ctx, projectID, ev); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvent(ev))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&in.title, "title", "", "Event title")
	cmd.Flags().StringVar(&in.eventType, "type", "", "payment, expense, inspection or milestone")
	cmd.Flags().StringVar(&in.date, "date", "", "Event date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&in.category, "category", "", "Expense category")
	cmd.Flags().StringVar(&in.amount, "amount", "", "Amount in dollars")

	return cmd
}

// newEventForm asks for the event fields not given as flags.
func newEventForm(ctx context.Context, app *App, in *eventInput) (*huh.Form, error) {
	projects, err := app.Reporting.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("no projects yet, create one with 'sitewise project add'")
	}
	return buildEventForm(projects, in), nil
}

func buildEventForm(projects []service.ProjectDetail, in *eventInput) *huh.Form {
	projectOptions := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		id := strconv.FormatInt(p.ID, 10)
		projectOptions = append(projectOptions, huh.NewOption(fmt.Sprintf("#%s %s", id, p.Name), id))
	}
	typeOptions := make([]huh.Option[string], 0, len(eventTypes))
	for _, t := range eventTypes {
		typeOptions = append(typeOptions, huh.NewOption(string(t), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which Project?").
				Options(projectOptions...).
				Value(&in.projectID),
			huh.NewSelect[string]().
				Title("Event Type").
				Options(typeOptions...).
				Value(&in.eventType),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&in.title).
				Validate(validateRequired),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD, blank for today").
				Value(&in.date).
				Validate(validateDate),
			huh.NewInput().
				Title("Amount (optional)").
				Placeholder("0.00").
				Value(&in.amount).
				Validate(validateNonNegativeAmount),
			huh.NewInput().
				Title("Category (optional)").
				Placeholder("materials, equipment, permits").
				Value(&in.category),
		),
	).WithTheme(sitewiseHuhTheme()).WithShowHelp(false)
}

func newEventUpdateCmd(s *session) *cobra.Command {
	var (
		title, eventType, date, category string
		amount                           float64
	)

	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Change fields of a recorded event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var upd domain.EventUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				upd.Title = &title
			}
			if flags.Changed("type") {
				t := domain.EventType(strings.ToLower(eventType))
				upd.Type = &t
			}
			if flags.Changed("date") {
				d, err := parseOptionalDate("event", date)
				if err != nil {
					return err
				}
				upd.Date = d
			}
			if flags.Changed("category") {
				upd.Category = &category
			}
			if flags.Changed("amount") {
				upd.Amount = &amount
			}

			ev, err := s.app.Reporting.UpdateEvent(cmd.Context(), id, upd)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvent(ev))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title")
	cmd.Flags().StringVar(&eventType, "type", "", "payment, expense, inspection or milestone")
	cmd.Flags().StringVar(&date, "date", "", "Event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "Expense category")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount in dollars")

	return cmd
}
