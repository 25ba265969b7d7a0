package main

import (
	"context"
	"fmt"
	"io"

	"expense-tracker/internal/backend"
	appcli "expense-tracker/internal/cli"
	"expense-tracker/internal/config"
	applog "expense-tracker/internal/log"
)

// setup loads and validates the environment configuration and installs the
// logger.
func setup(out io.Writer) (*config.Config, *applog.Logger, error) {
	cfg, err := appcli.LoadAndValidateConfig((*config.Config).Validate)
	if err != nil {
		return nil, nil, err
	}
	return cfg, appcli.SetupLogger(cfg.LogLevel, out), nil
}

func openBackend(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}
	return res, nil
}
