package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/cli/formatter"
)

func newLaborCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labor",
		Short: "Labor productivity per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stats, err := s.app.Labor.Productivity(ctx)
			if err != nil {
				return err
			}
			totals, err := s.app.Labor.Totals(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProductivity(stats, totals))
			return nil
		},
	}

	cmd.AddCommand(
		newLaborEmployeesCmd(s),
		newLaborPayrollCmd(s),
		newLaborUnionsCmd(s),
	)

	return cmd
}

func newLaborEmployeesCmd(s *session) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Hours and pay per employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var scope *int64
			if cmd.Flags().Changed("project") {
				scope = &projectID
			}
			employees, err := s.app.Labor.Employees(cmd.Context(), scope)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEmployees(employees))
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Limit to one project ID")

	return cmd
}

func newLaborPayrollCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "payroll",
		Short: "Estimate weekly payroll from recent labor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			est, err := s.app.Labor.Payroll(cmd.Context(), s.app.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPayroll(est, s.app.Config.Analytics.WindowDays))
			return nil
		},
	}
}

func newLaborUnionsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "unions",
		Short: "Benefit liability owed to each union",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unions, err := s.app.Labor.Unions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUnions(unions))
			return nil
		},
	}
}
