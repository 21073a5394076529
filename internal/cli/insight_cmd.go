package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/cli/formatter"
	"github.com/alexanderramin/sitewise/internal/narration"
	"github.com/alexanderramin/sitewise/internal/service"
)

func newInsightCmd(s *session) *cobra.Command {
	var (
		view      string
		projectID int64
	)

	cmd := &cobra.Command{
		Use:   "insight [question...]",
		Short: "Narrate labor, automation or finance figures",
		Long: `Narrate the current figures of one view: labor, automation or finance.

Words after the flags are asked as a question about the view. Without an
enabled LLM the answer is a rule-based summary.`,
		Example: `  sitewise insight
  sitewise insight --view finance --project 3
  sitewise insight --view automation why is concrete flagged`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := narration.ParseView(view)
			if err != nil {
				return err
			}
			req := service.InsightRequest{
				View:  v,
				Query: strings.TrimSpace(strings.Join(args, " ")),
			}
			if cmd.Flags().Changed("project") {
				req.ProjectID = &projectID
			}

			stop := func() {}
			if s.app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking")
			}
			insight, err := s.app.Insights.Insight(cmd.Context(), req)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInsight(insight))
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", string(narration.ViewLabor), "View to narrate: labor, automation, finance")
	cmd.Flags().Int64Var(&projectID, "project", 0, "Narrate one project (finance view)")

	return cmd
}

func newLLMCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "llm",
		Short: "Show the narration provider in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProviderInfo(s.app.Agent.Config()))
			return nil
		},
	}
}
