// Package backend builds the configured expense store and wires it into the
// persistence client.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/services"
	"expense-tracker/internal/storage"
	"expense-tracker/internal/storage/memory"
	"expense-tracker/internal/storage/postgres"
	"expense-tracker/internal/storage/sqlite"
)

type CleanupFunc func() error

// BackendResult holds the built store, the service over it, and the function
// releasing both.
type BackendResult struct {
	Repository storage.Repository
	Service    *services.ExpenseService
	Cleanup    CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	repo, err := f.openRepository(ctx, config)
	if err != nil {
		return nil, err
	}

	var publisher services.ChangePublisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
			publisher = client
		}
	}

	svc := services.NewExpenseService(repo, publisher)
	return &BackendResult{
		Repository: repo,
		Service:    svc,
		Cleanup:    svc.Close,
	}, nil
}

func (f *DefaultFactory) openRepository(ctx context.Context, config Config) (storage.Repository, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := sqlite.Open(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, nil
	case PostgresBackend:
		repo, err := postgres.Open(ctx, config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize Postgres repository: %w", err)
		}
		f.logger.Info("Initialized Postgres backend")
		return repo, nil
	case MemoryBackend:
		dir := config.DataDirectory
		if dir == "" {
			dir = "data"
		}
		f.logger.Info("Initialized memory backend", "data_directory", dir)
		return memory.NewFromFiles(dir), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// Migrate applies schema migrations for the SQL backends. Memory is a no-op.
func Migrate(config Config) error {
	switch config.Type {
	case SQLiteBackend:
		return sqlite.RunMigrations(config.SQLiteDBPath)
	case PostgresBackend:
		return postgres.RunMigrations(config.DatabaseURL)
	default:
		return nil
	}
}
