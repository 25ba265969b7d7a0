package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"expense-tracker/internal/backend"
)

var cmdMigrate = &cli.Command{
	Name:   "migrate",
	Usage:  "Apply schema migrations for the sqlite or postgres backend",
	Action: migrate,
}

func migrate(_ context.Context, _ *cli.Command) error {
	cfg, logger, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	if !bc.Migratable() {
		logger.Info("Backend has no schema, nothing to migrate", "backend", bc.Type)
		return nil
	}
	if err := backend.Migrate(bc); err != nil {
		return fmt.Errorf("migrate %s: %w", bc.Type, err)
	}
	logger.Info("Migrations applied", "backend", bc.Type)
	return nil
}
