package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	appcli "expense-tracker/internal/cli"
)

func main() {
	// Load .env file for local development (ignored when absent)
	appcli.LoadEnvFile()

	app := &cli.Command{
		Name:  "expense-tracker",
		Usage: "Track personal expenses and summarize spending",
		Flags: serveFlags(),
		Commands: []*cli.Command{
			cmdServe,
			cmdMigrate,
			cmdCheck,
			cmdSummary,
		},
		// serve is the default
		Action: serve,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
