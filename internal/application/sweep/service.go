// Package sweep implements the periodic maintenance passes: materializing
// tasks from due recurring schedules and transitioning overdue tasks.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/schedule"
)

// ItemError records a single schedule that failed during a sweep.
type ItemError struct {
	ScheduleID string `json:"schedule_id"`
	Err        string `json:"error"`
}

// MaterializeResult summarizes one materializer run.
type MaterializeResult struct {
	Processed int         `json:"processed"`
	Created   int         `json:"created"`
	Errors    []ItemError `json:"errors,omitempty"`
}

// OverdueResult summarizes one overdue sweep.
type OverdueResult struct {
	Transitioned int64 `json:"transitioned"`
}

// Service runs the maintenance sweeps. Both operations are stateless and are
// invoked by an external trigger (the worker's cron loop or an HTTP cron
// endpoint); failures on one schedule never abort the rest.
type Service struct {
	repo             Repository
	operationTimeout time.Duration
	now              func() time.Time
}

// Option is a functional option for configuring Service.
type Option func(*Service)

// WithOperationTimeout bounds a single sweep run.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.operationTimeout = d
	}
}

// WithNowFunc overrides the clock. Used in tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a sweep service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:             repo,
		operationTimeout: 60 * time.Second,
		now:              func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MaterializeDue creates one task for every active schedule due on or before
// today and advances each schedule's next_due_date.
//
// The new next_due_date is computed from the old next_due_date, not from
// "today", so a sweep that runs late does not shift the cadence: a weekly
// schedule due Monday but processed Wednesday still advances to next Monday.
//
// A failure on one schedule is recorded against its ID and processing
// continues; there is no global rollback. Only a failure to read the due set
// at all propagates as an error.
func (s *Service) MaterializeDue(ctx context.Context) (*MaterializeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	asOf := schedule.StartOfDay(s.now())

	due, err := s.repo.FindDueSchedules(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to find due schedules: %w", err)
	}

	result := &MaterializeResult{}

	for _, d := range due {
		created, err := s.materializeOne(ctx, d)
		result.Processed++
		if err != nil {
			slog.ErrorContext(ctx, "failed to materialize schedule",
				"schedule_id", d.Schedule.ID, "error", err)
			result.Errors = append(result.Errors, ItemError{
				ScheduleID: d.Schedule.ID,
				Err:        err.Error(),
			})
			continue
		}
		if created {
			result.Created++
		}
	}

	slog.InfoContext(ctx, "materializer sweep finished",
		"processed", result.Processed,
		"created", result.Created,
		"failed", len(result.Errors))

	return result, nil
}

// materializeOne builds the task for one due schedule and hands both writes to
// the repository as a single transaction.
func (s *Service) materializeOne(ctx context.Context, d *domain.DueSchedule) (bool, error) {
	sched := d.Schedule

	nextDue, err := schedule.NextDueDate(sched.NextDueDate, sched.Frequency, sched.CustomFrequencyDays)
	if err != nil {
		return false, fmt.Errorf("failed to compute next due date: %w", err)
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return false, fmt.Errorf("failed to generate task id: %w", err)
	}

	now := s.now()
	dueDate := sched.NextDueDate
	task := &domain.Task{
		ID:           idObj.String(),
		HomeID:       d.HomeID,
		AssetID:      &sched.AssetID,
		TemplateID:   &sched.TemplateID,
		ScheduleID:   &sched.ID,
		Title:        d.Template.Name,
		Description:  d.Template.Description,
		DueDate:      dueDate,
		Priority:     domain.TaskPriorityMedium,
		Status:       domain.TaskStatusPending,
		GeneratedFor: &dueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.MaterializeSchedule(ctx, task, sched.ID, nextDue)
}

// SweepOverdue transitions every pending task with a due date strictly before
// the start of the current UTC day to overdue. The update is a single
// set-based statement, so no concurrent reader observes a half-swept state,
// and re-running with no intervening changes transitions zero rows.
func (s *Service) SweepOverdue(ctx context.Context) (*OverdueResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	boundary := schedule.StartOfDay(s.now())

	transitioned, err := s.repo.MarkOverdueTasks(ctx, boundary)
	if err != nil {
		return nil, fmt.Errorf("failed to mark overdue tasks: %w", err)
	}

	slog.InfoContext(ctx, "overdue sweep finished", "transitioned", transitioned)

	return &OverdueResult{Transitioned: transitioned}, nil
}
