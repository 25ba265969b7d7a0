// Command expense-worker mirrors the expense store into a Google Sheet. It
// applies change events from AMQP as they arrive and runs a full reconcile on
// startup and then periodically.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/backend"
	appcli "expense-tracker/internal/cli"
	"expense-tracker/internal/config"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/sheets"
	"expense-tracker/internal/sheets/google"
	"expense-tracker/internal/sheets/memory"
	"expense-tracker/internal/worker"
)

func main() {
	appcli.LoadEnvFile()

	app := &cli.Command{
		Name:  "expense-worker",
		Usage: "Mirror expenses into a Google Sheet",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "once",
				Usage: "run a single reconcile, print the result and exit",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := appcli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	if err != nil {
		return err
	}
	logger := appcli.SetupLogger(cfg.LogLevel, os.Stdout).WithComponent(applog.ComponentWorker)

	ctx, stop := appcli.SignalContext(ctx)
	defer stop()

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	// The worker only reads; it must not publish its own change events.
	bc.AMQPURL = ""
	be, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bc)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	defer be.Cleanup()

	mirror, err := newMirror(ctx, cfg, logger)
	if err != nil {
		return err
	}
	w := worker.NewSyncWorker(be.Repository, mirror)

	if cmd.Bool("once") {
		stats, err := w.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
		fmt.Printf("Reconciled: %d upserted, %d removed, %d errors\n", stats.Upserted, stats.Removed, stats.Errors)
		return nil
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to AMQP: %w", err)
	}
	defer client.Close()

	reconciler := worker.NewReconciler(w, worker.ReconcilerConfig{Interval: cfg.ReconcileInterval})
	if err := reconciler.Start(ctx); err != nil {
		return err
	}

	logger.Info("Worker started",
		"backend", bc.Type,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"reconcile_interval", cfg.ReconcileInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.Consume(gctx, w.HandleChange)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	werr := g.Wait()

	logger.Info("Shutdown signal received, stopping worker", applog.FieldOperation, applog.OpShutdown)
	if err := reconciler.Stop(context.Background()); err != nil {
		logger.Warn("Reconciler stop failed", applog.FieldError, err)
	}
	if werr != nil {
		return fmt.Errorf("consume change events: %w", werr)
	}
	logger.Info("Worker stopped")
	return nil
}

// newMirror returns the Google Sheets client when a spreadsheet is
// configured, otherwise an in-process sheet so the pipeline still runs.
func newMirror(ctx context.Context, cfg *config.Config, logger *applog.Logger) (sheets.Mirror, error) {
	if cfg.GoogleSpreadsheetID == "" {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, mirroring into memory only")
		return memory.New(), nil
	}
	client, err := google.New(ctx, google.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	logger.Info("Mirroring into Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	return client, nil
}
