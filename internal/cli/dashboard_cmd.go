package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/cli/formatter"
	"github.com/alexanderramin/sitewise/internal/service"
)

func newDashboardCmd(s *session) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show every analytics view",
		Long: `Show labor, payroll, union, finance and anomaly views computed over one
snapshot of the records. On a terminal the views are tabs; otherwise, or
with --plain, they are printed one after another.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.app.interactive() && !plain {
				p := tea.NewProgram(newDashboardModel(s.app),
					tea.WithAltScreen(),
					tea.WithContext(cmd.Context()),
				)
				_, err := p.Run()
				return err
			}

			now := s.app.now()
			d, err := s.app.Dashboard.Build(cmd.Context(), service.DashboardRequest{Now: &now})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDashboard(d, s.app.Config.Analytics.WindowDays))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print every view instead of the interactive tabs")

	return cmd
}
