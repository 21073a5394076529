package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/api"
	"github.com/alexanderramin/sitewise/internal/cli/formatter"
	"github.com/alexanderramin/sitewise/internal/config"
	"github.com/alexanderramin/sitewise/internal/export"
	"github.com/alexanderramin/sitewise/internal/service"
)

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Import projects, labor, invoices and unions from a JSON snapshot",
		Long: `Import a JSON snapshot in one transaction. Every record is validated
first; nothing is written when any record is invalid. Project hour totals
are recomputed from the imported labor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := s.app.Import.ImportSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(result))
			return nil
		},
	}
}

func newExportCmd(s *session) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := s.app.now()
			d, err := s.app.Dashboard.Build(cmd.Context(), service.DashboardRequest{Now: &now})
			if err != nil {
				return err
			}
			if out == "" {
				out = "sitewise-" + now.UTC().Format(dateLayout) + ".xlsx"
			}
			if err := export.WriteFile(out, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", formatter.StyleGreen.Render("✔"), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Workbook path (default sitewise-<date>.xlsx)")

	return cmd
}

func newServeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := s.app
			srv := api.NewServer(api.Config{
				Addr: app.Config.Server.Addr,
				Services: api.Services{
					Labor:     app.Labor,
					Finance:   app.Finance,
					Anomalies: app.Anomalies,
					Insights:  app.Insights,
					Reporting: app.Reporting,
					Dashboard: app.Dashboard,
					Agent:     app.Agent,
				},
				Logger: app.Logger,
				Now:    app.Now,
			})
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default "+config.DefaultServerAddr+")")

	return cmd
}
