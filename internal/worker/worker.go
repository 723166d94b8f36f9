// Package worker runs the maintenance sweeps on cron schedules.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/upkeephq/upkeep/internal/application/sweep"
)

// Default cron specs for the two sweeps.
const (
	// DefaultMaterializeSpec generates tasks for due schedules hourly.
	DefaultMaterializeSpec = "0 * * * *"

	// DefaultOverdueSpec flips past due pending tasks shortly after the
	// UTC date rolls over, which is when "overdue" changes meaning.
	DefaultOverdueSpec = "5 0 * * *"
)

// Worker drives the sweep service from an in-process cron scheduler.
type Worker struct {
	sweeps          *sweep.Service
	materializeSpec string
	overdueSpec     string
	cron            *cron.Cron
	wg              sync.WaitGroup
}

// Option is a functional option for configuring Worker.
type Option func(*Worker)

// WithMaterializeSpec overrides the cron spec for the schedule materializer.
func WithMaterializeSpec(spec string) Option {
	return func(w *Worker) {
		if spec != "" {
			w.materializeSpec = spec
		}
	}
}

// WithOverdueSpec overrides the cron spec for the overdue sweep.
func WithOverdueSpec(spec string) Option {
	return func(w *Worker) {
		if spec != "" {
			w.overdueSpec = spec
		}
	}
}

// New creates a new Worker with the given sweep service and options.
func New(sweeps *sweep.Service, opts ...Option) *Worker {
	w := &Worker{
		sweeps:          sweeps,
		materializeSpec: DefaultMaterializeSpec,
		overdueSpec:     DefaultOverdueSpec,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start registers the sweep jobs and runs the scheduler until ctx is
// cancelled. Both sweeps also run once immediately so a worker that was down
// over a boundary catches up on startup.
func (w *Worker) Start(ctx context.Context) error {
	w.cron = cron.New()

	if _, err := w.cron.AddFunc(w.materializeSpec, func() {
		w.runMaterialize(ctx)
	}); err != nil {
		return fmt.Errorf("invalid materialize cron spec %q: %w", w.materializeSpec, err)
	}
	if _, err := w.cron.AddFunc(w.overdueSpec, func() {
		w.runOverdue(ctx)
	}); err != nil {
		return fmt.Errorf("invalid overdue cron spec %q: %w", w.overdueSpec, err)
	}

	slog.InfoContext(ctx, "worker started",
		"materialize_spec", w.materializeSpec,
		"overdue_spec", w.overdueSpec)

	// Catch-up run on startup
	w.runOverdue(ctx)
	w.runMaterialize(ctx)

	w.cron.Start()

	<-ctx.Done()

	// Let the scheduler finish dispatching, then wait for running sweeps
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
	w.wg.Wait()

	slog.Info("worker stopped")
	return ctx.Err()
}

func (w *Worker) runMaterialize(ctx context.Context) {
	w.wg.Add(1)
	defer w.wg.Done()

	result, err := w.sweeps.MaterializeDue(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "materialize sweep failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "materialize sweep complete",
		"processed", result.Processed,
		"created", result.Created,
		"errors", len(result.Errors))
}

func (w *Worker) runOverdue(ctx context.Context) {
	w.wg.Add(1)
	defer w.wg.Done()

	result, err := w.sweeps.SweepOverdue(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "overdue sweep failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "overdue sweep complete", "transitioned", result.Transitioned)
}
