// Package services holds the persistence client used by the presentation
// layer and the command line tools.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/core"
	"expense-tracker/internal/storage"
)

// ChangePublisher announces successful writes. Publishing is best effort.
type ChangePublisher interface {
	Publish(ctx context.Context, ev *amqp.ChangeEvent) error
	Close() error
}

// ExpenseService wraps a repository with typed results and change events.
type ExpenseService struct {
	repo      storage.Repository
	publisher ChangePublisher
}

// NewExpenseService builds a service over repo. publisher may be nil.
func NewExpenseService(repo storage.Repository, publisher ChangePublisher) *ExpenseService {
	return &ExpenseService{repo: repo, publisher: publisher}
}

// FetchAll returns every stored record. On failure Value is an empty,
// non-nil slice.
func (s *ExpenseService) FetchAll(ctx context.Context) Result[[]core.Expense] {
	items, err := s.repo.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch expenses", "error", err)
		return failure([]core.Expense{}, fmt.Errorf("fetch expenses: %w", err))
	}
	if items == nil {
		items = []core.Expense{}
	}
	return success(items)
}

// Get returns a single record.
func (s *ExpenseService) Get(ctx context.Context, id string) Result[core.Expense] {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return failure(core.Expense{}, fmt.Errorf("get expense %s: %w", id, err))
	}
	return success(e)
}

func (s *ExpenseService) Create(ctx context.Context, e core.Expense) Result[core.Expense] {
	if err := e.Validate(); err != nil {
		return failure(core.Expense{}, err)
	}
	saved, err := s.repo.Create(ctx, e)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create expense", "id", e.ID, "error", err)
		return failure(core.Expense{}, fmt.Errorf("create expense: %w", err))
	}
	s.publish(ctx, saved.ID, amqp.OpCreate)
	return success(saved)
}

func (s *ExpenseService) Update(ctx context.Context, e core.Expense) Result[core.Expense] {
	if err := e.Validate(); err != nil {
		return failure(core.Expense{}, err)
	}
	saved, err := s.repo.Update(ctx, e)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to update expense", "id", e.ID, "error", err)
		return failure(core.Expense{}, fmt.Errorf("update expense: %w", err))
	}
	s.publish(ctx, saved.ID, amqp.OpUpdate)
	return success(saved)
}

// Delete removes the record and returns its id.
func (s *ExpenseService) Delete(ctx context.Context, id string) Result[string] {
	if id == "" {
		return failure("", core.ErrEmptyID)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete expense", "id", id, "error", err)
		return failure("", fmt.Errorf("delete expense: %w", err))
	}
	s.publish(ctx, id, amqp.OpDelete)
	return success(id)
}

func (s *ExpenseService) publish(ctx context.Context, id string, op amqp.Operation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, amqp.NewChangeEvent(id, op)); err != nil {
		// the write already succeeded
		slog.WarnContext(ctx, "Failed to publish change event", "id", id, "operation", op, "error", err)
	}
}

// Close releases the repository and the publisher.
func (s *ExpenseService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	return errors.Join(errs...)
}
