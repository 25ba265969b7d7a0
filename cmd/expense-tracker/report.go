package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"expense-tracker/internal/core"
	"expense-tracker/internal/services"
)

var cmdCheck = &cli.Command{
	Name:   "check",
	Usage:  "Fetch every expense and print the count and the first record",
	Action: withService(runCheck),
}

var cmdSummary = &cli.Command{
	Name:   "summary",
	Usage:  "Print the summary of all expenses as JSON",
	Action: withService(runSummary),
}

// reader is the part of the persistence client the reports need.
type reader interface {
	FetchAll(ctx context.Context) services.Result[[]core.Expense]
}

// withService opens the configured backend, logging to stderr so stdout
// carries only the report.
func withService(run func(context.Context, reader, io.Writer) error) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		cfg, logger, err := setup(os.Stderr)
		if err != nil {
			return err
		}
		be, err := openBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer be.Cleanup()
		return run(ctx, be.Service, os.Stdout)
	}
}

func runCheck(ctx context.Context, svc reader, w io.Writer) error {
	res := svc.FetchAll(ctx)
	if !res.OK() {
		return fmt.Errorf("connection check failed: %w", res.Err)
	}
	fmt.Fprintf(w, "Connection OK: %d expenses\n", len(res.Value))
	if len(res.Value) == 0 {
		return nil
	}
	first, err := json.MarshalIndent(res.Value[0], "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "First record:\n%s\n", first)
	return nil
}

func runSummary(ctx context.Context, svc reader, w io.Writer) error {
	res := svc.FetchAll(ctx)
	if !res.OK() {
		return fmt.Errorf("fetch expenses: %w", res.Err)
	}
	summary := core.BuildSummary(res.Value)
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", out)
	return nil
}
