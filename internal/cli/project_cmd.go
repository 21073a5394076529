package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/cli/formatter"
	"github.com/alexanderramin/sitewise/internal/domain"
)

const dateLayout = "2006-01-02"

func newProjectCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(s),
		newProjectListCmd(s),
		newProjectShowCmd(s),
	)

	return cmd
}

func newProjectAddCmd(s *session) *cobra.Command {
	var (
		p                     domain.Project
		start, due, estimated string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if p.StartDate, err = parseOptionalDate("start", start); err != nil {
				return err
			}
			if p.OriginalCompletionDate, err = parseOptionalDate("due", due); err != nil {
				return err
			}
			if p.EstimatedCompletionDate, err = parseOptionalDate("estimated", estimated); err != nil {
				return err
			}
			if p.EstimatedCompletionDate == nil {
				p.EstimatedCompletionDate = p.OriginalCompletionDate
			}

			if err := s.app.Reporting.CreateProject(cmd.Context(), &p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%d]\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&p.Location, "location", "", "Site location")
	cmd.Flags().StringVar(&p.Manager, "manager", "", "Project manager")
	cmd.Flags().Float64Var(&p.TotalBudget, "budget", 0, "Total budget in dollars")
	cmd.Flags().Float64Var(&p.BudgetHours, "budget-hours", 0, "Budgeted labor hours")
	cmd.Flags().StringVar(&p.StatusNotes, "notes", "", "Status notes")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Original completion date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&estimated, "estimated", "", "Estimated completion date (YYYY-MM-DD), defaults to --due")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := s.app.Reporting.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects, s.app.now()))
			return nil
		},
	}
}

func newProjectShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project with its timeline and media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := s.app.Reporting.GetProject(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectDetail(p, s.app.now()))
			return nil
		},
	}
}

func parseOptionalDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q: %w", name, value, err)
	}
	return &t, nil
}

func newMediaCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage project media",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <project-id> <filename>",
		Short: "Register a media file against a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := s.app.Reporting.AddMedia(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s %s at %s\n", m.FileType, m.Filename, m.URL)
			return nil
		},
	})

	return cmd
}
