// Package storage defines the persistence ports for expense records and the
// row mapping shared by the SQL backends.
package storage

import (
	"context"
	"errors"

	"expense-tracker/internal/core"
)

var (
	ErrNotFound    = errors.New("expense not found")
	ErrDuplicateID = errors.New("expense id already exists")
)

// Ports for the persistence adapters.
type (
	ExpenseReader interface {
		// List returns every stored expense in storage order.
		List(ctx context.Context) ([]core.Expense, error)
		// Get returns a single expense or ErrNotFound.
		Get(ctx context.Context, id string) (core.Expense, error)
	}

	ExpenseWriter interface {
		Create(ctx context.Context, e core.Expense) (core.Expense, error)
		// Update replaces the record with the same ID or returns ErrNotFound.
		Update(ctx context.Context, e core.Expense) (core.Expense, error)
	}

	ExpenseDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	Repository interface {
		ExpenseReader
		ExpenseWriter
		ExpenseDeleter
		Close() error
	}
)
