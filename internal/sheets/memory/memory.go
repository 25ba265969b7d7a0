// Package memory is an in-process sheet mirror used when no spreadsheet is
// configured.
package memory

import (
	"context"
	"slices"
	"sync"

	"expense-tracker/internal/core"
	"expense-tracker/internal/sheets"
)

type Sheet struct {
	mu   sync.Mutex
	rows []core.Expense
}

var _ sheets.Mirror = (*Sheet)(nil)

func New() *Sheet { return &Sheet{} }

func (s *Sheet) Upsert(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(e.ID); i >= 0 {
		s.rows[i] = e
		return nil
	}
	s.rows = append(s.rows, e)
	return nil
}

func (s *Sheet) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.rows = slices.Delete(s.rows, i, i+1)
	}
	return nil
}

func (s *Sheet) IDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, e.ID)
	}
	return out, nil
}

// Rows returns a copy of the mirrored records in sheet order.
func (s *Sheet) Rows() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rows)
}

func (s *Sheet) indexOf(id string) int {
	return slices.IndexFunc(s.rows, func(e core.Expense) bool { return e.ID == id })
}
