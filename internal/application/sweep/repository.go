package sweep

import (
	"context"
	"time"

	"github.com/upkeephq/upkeep/internal/domain"
)

// Repository defines the storage operations the maintenance sweeps need.
type Repository interface {
	// FindDueSchedules retrieves all active recurring schedules whose
	// next_due_date is on or before asOf, joined with their templates.
	FindDueSchedules(ctx context.Context, asOf time.Time) ([]*domain.DueSchedule, error)

	// MaterializeSchedule inserts the task and advances the schedule's
	// next_due_date to nextDue in a single transaction. The task insert is
	// conflict-ignoring on (schedule_id, generated_for): when the cycle is
	// already occupied, by a concurrent sweep or by a pack application's seed
	// task, nothing is inserted but the schedule still advances past the
	// occupied cycle. The advance is guarded by the old next_due_date so it
	// happens at most once per cycle. Returns whether a new task row was
	// inserted.
	MaterializeSchedule(ctx context.Context, task *domain.Task, scheduleID string, nextDue time.Time) (bool, error)

	// MarkOverdueTasks transitions pending tasks with a due date strictly
	// before the given boundary to overdue in one set-based update.
	// Returns the number of rows transitioned.
	MarkOverdueTasks(ctx context.Context, before time.Time) (int64, error)
}
