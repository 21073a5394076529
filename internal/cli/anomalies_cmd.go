package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/cli/formatter"
)

func newAnomaliesCmd(s *session) *cobra.Command {
	var flag bool

	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Scan invoices for expense anomalies",
		Long: `Scan invoices for expense anomalies and suggest a follow-up for each.

With --flag the scan result is written back onto the invoices: anomalous
invoices are flagged with a description and previously flagged invoices
that no longer qualify are cleared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if flag {
				result, err := s.app.Anomalies.Flag(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatFlagResult(result))
				return nil
			}

			stop := func() {}
			if s.app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Scanning invoices")
			}
			findings, err := s.app.Anomalies.Scan(ctx)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatAnomalies(findings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flag, "flag", false, "Persist anomaly flags onto invoices")

	return cmd
}
