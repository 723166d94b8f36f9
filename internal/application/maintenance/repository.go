package maintenance

import (
	"context"
	"time"

	"github.com/upkeephq/upkeep/internal/domain"
)

// Repository defines storage operations for maintenance management.
// Implementations return domain sentinel errors for not-found and conflict
// conditions so the service can classify per-item failures.
type Repository interface {
	// === Template and pack operations ===

	// CreateTemplate persists a new maintenance template.
	CreateTemplate(ctx context.Context, template *domain.MaintenanceTemplate) (*domain.MaintenanceTemplate, error)

	// FindTemplateByID retrieves a template by ID.
	FindTemplateByID(ctx context.Context, id string) (*domain.MaintenanceTemplate, error)

	// FindTemplates retrieves templates, optionally only active ones.
	FindTemplates(ctx context.Context, activeOnly bool) ([]*domain.MaintenanceTemplate, error)

	// FindPacks retrieves all template packs with their template counts.
	FindPacks(ctx context.Context) ([]*domain.TemplatePack, error)

	// FindPackByID retrieves a single pack.
	FindPackByID(ctx context.Context, id string) (*domain.TemplatePack, error)

	// FindActiveTemplatesInPack retrieves the active templates belonging to a pack.
	FindActiveTemplatesInPack(ctx context.Context, packID string) ([]*domain.MaintenanceTemplate, error)

	// === Asset lookups (for ownership validation) ===

	// FindAssetByID retrieves an asset by ID.
	FindAssetByID(ctx context.Context, id string) (*domain.Asset, error)

	// === Schedule operations ===

	// FindScheduleForAssetTemplate retrieves the schedule for an (asset,
	// template) pair. Returns domain.ErrScheduleNotFound when absent.
	FindScheduleForAssetTemplate(ctx context.Context, assetID, templateID string) (*domain.RecurringSchedule, error)

	// FindSchedulesByAsset retrieves schedules attached to an asset.
	FindSchedulesByAsset(ctx context.Context, assetID string, activeOnly bool) ([]*domain.RecurringSchedule, error)

	// CreateScheduleWithSeedTask inserts a new schedule and its first task in
	// one transaction. Returns domain.ErrScheduleAlreadyActive if a concurrent
	// writer created the (asset, template) schedule first.
	CreateScheduleWithSeedTask(ctx context.Context, sched *domain.RecurringSchedule, seed *domain.Task) (*domain.RecurringSchedule, error)

	// ReactivateScheduleWithSeedTask re-enables an inactive schedule, resets
	// its next_due_date, and inserts its first task in one transaction.
	ReactivateScheduleWithSeedTask(ctx context.Context, scheduleID string, nextDue time.Time, seed *domain.Task) (*domain.RecurringSchedule, error)

	// DeactivateSchedule soft-deletes a schedule. Existing tasks are untouched.
	DeactivateSchedule(ctx context.Context, scheduleID string) error

	// SetScheduleLastCompleted records when a schedule's task was last completed.
	SetScheduleLastCompleted(ctx context.Context, scheduleID string, completedAt time.Time) error

	// === Task operations ===

	// CreateTask persists a new task.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// FindTaskByID retrieves a task by ID.
	FindTaskByID(ctx context.Context, id string) (*domain.Task, error)

	// FindTasks searches tasks with filtering, sorting, and pagination.
	FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error)

	// UpdateTaskStatus transitions a task's status and stamps completed_at for
	// completions (clearing it on reopen).
	UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus, completedAt *time.Time) (*domain.Task, error)
}
