package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestReconcilerRunsOnStartAndStops(t *testing.T) {
	var calls int32
	r := newReconciler(func(context.Context) (ReconcileStats, error) {
		atomic.AddInt32(&calls, 1)
		return ReconcileStats{}, nil
	}, ReconcilerConfig{Interval: 10 * time.Millisecond})

	if r.IsRunning() {
		t.Fatalf("should not be running initially")
	}
	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Start(ctx); err == nil {
		t.Fatalf("expected error on second start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&calls) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if atomic.LoadInt32(&calls) < 2 {
		t.Fatalf("expected at least two runs, got %d", calls)
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := r.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if r.IsRunning() {
		t.Fatalf("should not be running after stop")
	}
}

func TestReconcilerStopWhenNotRunning(t *testing.T) {
	r := newReconciler(func(context.Context) (ReconcileStats, error) { return ReconcileStats{}, nil }, ReconcilerConfig{})
	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if r.config.Interval != DefaultReconcilerConfig().Interval {
		t.Fatalf("default interval not applied: %v", r.config.Interval)
	}
}
