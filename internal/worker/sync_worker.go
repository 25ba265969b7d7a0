// Package worker keeps the spreadsheet mirror in step with the expense store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/sheets"
	"expense-tracker/internal/storage"
)

// SyncWorker applies change events to the mirror. Events carry only the id,
// so creates and updates read the current record from the store.
type SyncWorker struct {
	store  storage.ExpenseReader
	mirror sheets.Mirror
}

func NewSyncWorker(store storage.ExpenseReader, mirror sheets.Mirror) *SyncWorker {
	return &SyncWorker{store: store, mirror: mirror}
}

// HandleChange is an amqp.Handler. A record that no longer exists is removed
// from the mirror whatever the operation.
func (w *SyncWorker) HandleChange(ctx context.Context, ev *amqp.ChangeEvent) error {
	slog.InfoContext(ctx, "Processing change event", "id", ev.ID, "operation", ev.Operation)

	if ev.Operation == amqp.OpDelete {
		return w.remove(ctx, ev.ID)
	}

	e, err := w.store.Get(ctx, ev.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.InfoContext(ctx, "Record gone before sync, removing from mirror", "id", ev.ID)
		return w.remove(ctx, ev.ID)
	}
	if err != nil {
		return fmt.Errorf("get expense %s: %w", ev.ID, err)
	}
	if err := w.mirror.Upsert(ctx, e); err != nil {
		return fmt.Errorf("upsert %s: %w", ev.ID, err)
	}
	slog.InfoContext(ctx, "Synced expense to mirror", "id", ev.ID)
	return nil
}

func (w *SyncWorker) remove(ctx context.Context, id string) error {
	if err := w.mirror.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Removed expense from mirror", "id", id)
	return nil
}

// Reconcile upserts every stored record and removes mirror rows whose id is
// no longer stored. It recovers from events lost while the worker was down.
func (w *SyncWorker) Reconcile(ctx context.Context) (ReconcileStats, error) {
	var stats ReconcileStats

	items, err := w.store.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list expenses: %w", err)
	}
	present, err := w.mirror.IDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("list mirror ids: %w", err)
	}

	stored := make(map[string]struct{}, len(items))
	for _, e := range items {
		stored[e.ID] = struct{}{}
		if err := w.mirror.Upsert(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to upsert during reconcile", "id", e.ID, "error", err)
			stats.Errors++
			continue
		}
		stats.Upserted++
	}
	for _, id := range present {
		if _, ok := stored[id]; ok {
			continue
		}
		if err := w.mirror.Remove(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to remove during reconcile", "id", id, "error", err)
			stats.Errors++
			continue
		}
		stats.Removed++
	}

	slog.InfoContext(ctx, "Reconcile completed",
		"upserted", stats.Upserted,
		"removed", stats.Removed,
		"errors", stats.Errors)
	return stats, nil
}

type ReconcileStats struct {
	Upserted int
	Removed  int
	Errors   int
}
