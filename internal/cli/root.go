package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sitewise/internal/config"
	"github.com/alexanderramin/sitewise/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Labor     service.LaborService
	Finance   service.FinanceService
	Anomalies service.AnomalyService
	Insights  service.InsightService
	Reporting service.ReportingService
	Dashboard service.DashboardService
	Import    service.ImportService
	Agent     Agent

	Config *config.Config
	Logger *slog.Logger

	// Now anchors time-dependent views. Nil means time.Now.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Wiring builds the App once configuration is loaded. It runs before any
// subcommand that needs services.
type Wiring func(cfg *config.Config, logger *slog.Logger) (*App, error)

// session carries the App from the persistent pre-run to the subcommands.
type session struct {
	opts config.LoadOptions
	app  *App
}

// NewRootCmd creates the top-level "sitewise" command. Configuration is
// loaded from the flags of whichever subcommand runs, then wire builds the
// App the subcommands use.
func NewRootCmd(wire Wiring) *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:           "sitewise",
		Short:         "Construction labor, finance and expense analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}
			s.opts.Flags = cmd.Flags()
			cfg, err := config.Load(s.opts)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
			app, err := wire(cfg, logger)
			if err != nil {
				return err
			}
			s.app = app
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.opts.ConfigFile, "config", "", "Config file (default ./"+config.DefaultConfigFile+")")
	pf.StringVar(&s.opts.EnvFile, "env-file", "", "Env file (default ./"+config.DefaultEnvFile+")")
	pf.String("db", "", "SQLite database path")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.Float64("inflation", 0, "Annual inflation rate used by anomaly detection")
	pf.Float64("hourly-rate", 0, "Hourly labor rate")
	pf.Int("window-days", 0, "Payroll lookback window in days")
	pf.Bool("llm", false, "Narrate insights with the configured LLM")
	pf.String("llm-provider", "", "LLM provider: ollama or openai")
	pf.String("llm-model", "", "LLM model name")

	root.AddCommand(
		newLaborCmd(s),
		newFinanceCmd(s),
		newAnomaliesCmd(s),
		newInsightCmd(s),
		newProjectCmd(s),
		newEventCmd(s),
		newMediaCmd(s),
		newImportCmd(s),
		newExportCmd(s),
		newDashboardCmd(s),
		newServeCmd(s),
		newLLMCmd(s),
	)

	return root
}

// needsApp reports whether cmd runs against the services. Help and shell
// completion do not.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}
