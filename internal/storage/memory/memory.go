// Package memory implements an in-process expense store seeded with sample data.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"expense-tracker/internal/core"
	"expense-tracker/internal/storage"
)

// SeedFile is the optional file under the data directory that replaces the
// built-in sample data.
const SeedFile = "expenses.json"

type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

var _ storage.Repository = (*Store)(nil)

// New returns a store holding a copy of items.
func New(items []core.Expense) *Store {
	return &Store{items: slices.Clone(items)}
}

// NewFromFiles seeds the store from base/expenses.json when present, falling
// back to the built-in sample data when the file is missing or unreadable.
func NewFromFiles(base string) *Store {
	items, err := readSeed(filepath.Join(base, SeedFile))
	switch {
	case err == nil:
		slog.Info("Loaded seed expenses", "path", filepath.Join(base, SeedFile), "count", len(items))
		return New(items)
	case errors.Is(err, os.ErrNotExist):
	default:
		slog.Warn("Ignoring unreadable seed file", "path", filepath.Join(base, SeedFile), "error", err)
	}
	return New(SampleExpenses())
}

func (s *Store) List(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}

func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, storage.ErrNotFound
	}
	return s.items[i], nil
}

// Create appends the expense. IDs must be unique.
func (s *Store) Create(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(e.ID) >= 0 {
		return core.Expense{}, fmt.Errorf("create %s: %w", e.ID, storage.ErrDuplicateID)
	}
	s.items = append(s.items, e)
	return e, nil
}

// Update replaces the expense in place, keeping its position.
func (s *Store) Update(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(e.ID)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("update %s: %w", e.ID, storage.ErrNotFound)
	}
	s.items[i] = e
	return e, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, storage.ErrNotFound)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *Store) Close() error { return nil }

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(e core.Expense) bool { return e.ID == id })
}

func readSeed(path string) ([]core.Expense, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []core.Expense
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}
