package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/schedule"
)

// CreateTaskParams carries the user-supplied fields for a one-off task.
type CreateTaskParams struct {
	HomeID      string
	AssetID     *string
	Title       string
	Description string
	DueDate     time.Time
	Priority    string
}

// CreateTask creates a standalone task not tied to any schedule.
func (s *Service) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	title, err := domain.NewName(params.Title)
	if err != nil {
		return nil, err
	}

	priority, err := domain.NewTaskPriority(params.Priority)
	if err != nil {
		return nil, err
	}

	if params.AssetID != nil {
		asset, err := s.repo.FindAssetByID(ctx, *params.AssetID)
		if err != nil {
			return nil, err
		}
		if asset.HomeID != params.HomeID {
			return nil, domain.ErrAssetNotFound
		}
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task id: %w", err)
	}

	now := s.now()
	dueDate := params.DueDate
	if dueDate.IsZero() {
		dueDate = schedule.StartOfDay(now)
	}

	task := &domain.Task{
		ID:          idObj.String(),
		HomeID:      params.HomeID,
		AssetID:     params.AssetID,
		Title:       title.String(),
		Description: params.Description,
		DueDate:     dueDate,
		Priority:    priority,
		Status:      domain.TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.CreateTask(ctx, task)
}

// GetTask returns a task by ID.
func (s *Service) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}
	return s.repo.FindTaskByID(ctx, id)
}

// ListTasks returns a filtered, paginated task page. Zero or out-of-range
// pagination values are clamped to the service defaults.
func (s *Service) ListTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error) {
	if params.Limit <= 0 {
		params.Limit = s.config.DefaultPageSize
	}
	if params.Limit > s.config.MaxPageSize {
		params.Limit = s.config.MaxPageSize
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	if params.Status != nil {
		if _, err := domain.NewTaskStatus(string(*params.Status)); err != nil {
			return nil, err
		}
	}
	if params.Priority != nil {
		if _, err := domain.NewTaskPriority(string(*params.Priority)); err != nil {
			return nil, err
		}
	}

	return s.repo.FindTasks(ctx, params)
}

// StartTask moves a task into in_progress.
func (s *Service) StartTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.transition(ctx, taskID, domain.TaskStatusInProgress)
}

// CompleteTask marks a task completed, stamping the completion time. When the
// task belongs to a recurring schedule, the schedule's last-completed date is
// updated as well; the schedule's next due date is untouched so the cadence
// stays anchored to the original rhythm.
func (s *Service) CompleteTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.transition(ctx, taskID, domain.TaskStatusCompleted)
	if err != nil {
		return nil, err
	}

	if task.ScheduleID != nil && task.CompletedAt != nil {
		// The task itself is already completed. The schedule's last-completed
		// date is informational and never drives the cadence, so a failure
		// recording it must not surface as a failed completion.
		if err := s.repo.SetScheduleLastCompleted(ctx, *task.ScheduleID, *task.CompletedAt); err != nil {
			slog.WarnContext(ctx, "failed to record schedule completion",
				"task_id", task.ID,
				"schedule_id", *task.ScheduleID,
				"error", err)
		}
	}

	return task, nil
}

// ReopenTask moves a completed task back to pending.
func (s *Service) ReopenTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.transition(ctx, taskID, domain.TaskStatusPending)
}

// CancelTask cancels a task. Cancellation is terminal and serves as the soft
// delete; cancelled tasks stay queryable.
func (s *Service) CancelTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.transition(ctx, taskID, domain.TaskStatusCancelled)
}

func (s *Service) transition(ctx context.Context, taskID string, to domain.TaskStatus) (*domain.Task, error) {
	if taskID == "" {
		return nil, domain.ErrTaskNotFound
	}

	task, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(task.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, task.Status, to)
	}

	var completedAt *time.Time
	if to == domain.TaskStatusCompleted {
		now := s.now()
		completedAt = &now
	}

	return s.repo.UpdateTaskStatus(ctx, taskID, to, completedAt)
}
