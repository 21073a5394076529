package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/sitewise/internal/cli"
	"github.com/alexanderramin/sitewise/internal/config"
	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/llm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	wire := func(cfg *config.Config, logger *slog.Logger) (*cli.App, error) {
		var err error
		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}

		// Narration falls back to rule-based text without a client.
		var client llm.LLMClient
		if cfg.LLM.Configured() {
			var observer llm.Observer = llm.NoopObserver{}
			if cfg.LLM.LogCalls {
				observer = llm.NewLogObserver(os.Stderr)
			}
			client, err = llm.NewClient(cfg.LLM, observer)
			if err != nil {
				return nil, fmt.Errorf("creating llm client: %w", err)
			}
		}

		app := cli.NewApp(database, cfg, logger, client)

		// Detect interactive terminal for the dashboard tabs and event form.
		app.IsInteractive = func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		}
		return app, nil
	}

	return cli.NewRootCmd(wire).Execute()
}
