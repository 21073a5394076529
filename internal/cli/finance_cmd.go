package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/cli/formatter"
)

func newFinanceCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Portfolio profit and margin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := s.app.Finance.Portfolio(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPortfolio(view))
			return nil
		},
	}

	cmd.AddCommand(
		newFinanceVarianceCmd(s),
		newFinanceProjectCmd(s),
	)

	return cmd
}

func newFinanceVarianceCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "variance",
		Short: "Actual against budgeted hours per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			variances, err := s.app.Finance.Variance(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVariance(variances))
			return nil
		},
	}
}

func newFinanceProjectCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "project [id]",
		Short: "Revenue, costs and profit per project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scope *int64
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				scope = &id
			}
			reports, err := s.app.Finance.ProjectAnalytics(cmd.Context(), scope)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFinancials(reports))
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be a positive integer", s)
	}
	return id, nil
}
