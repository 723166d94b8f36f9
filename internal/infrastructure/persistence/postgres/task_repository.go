package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/upkeephq/upkeep/internal/domain"
)

const taskColumns = `id, home_id, asset_id, template_id, schedule_id, title, description,
	due_date, priority, status, generated_for, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var priority, status string
	err := row.Scan(&t.ID, &t.HomeID, &t.AssetID, &t.TemplateID, &t.ScheduleID,
		&t.Title, &t.Description, &t.DueDate, &priority, &status,
		&t.GeneratedFor, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	t.Priority = domain.TaskPriority(priority)
	t.Status = domain.TaskStatus(status)
	return &t, nil
}

// CreateTask persists a new task.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO tasks (id, home_id, asset_id, template_id, schedule_id, title,
			description, due_date, priority, status, generated_for, completed_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		task.ID, task.HomeID, task.AssetID, task.TemplateID, task.ScheduleID,
		task.Title, task.Description, task.DueDate, string(task.Priority),
		string(task.Status), task.GeneratedFor, task.CompletedAt,
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return task, nil
}

// FindTaskByID returns one task.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// FindTasks returns a filtered, ordered, paginated page of tasks along with
// the total match count.
func (s *Store) FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error) {
	where, args := buildTaskFilter(params)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + where
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	orderClause, err := buildTaskOrder(params.OrderBy, params.OrderDir)
	if err != nil {
		return nil, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`SELECT %s FROM tasks%s %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, orderClause, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.PagedTasks{
		Tasks:      tasks,
		TotalCount: total,
		HasMore:    params.Offset+len(tasks) < total,
	}, nil
}

func buildTaskFilter(params domain.ListTasksParams) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if params.HomeID != nil {
		add("home_id = $%d", *params.HomeID)
	}
	if params.AssetID != nil {
		add("asset_id = $%d", *params.AssetID)
	}
	if params.Status != nil {
		add("status = $%d", string(*params.Status))
	}
	if params.Priority != nil {
		add("priority = $%d", string(*params.Priority))
	}
	if params.DueBefore != nil {
		add("due_date < $%d", *params.DueBefore)
	}
	if params.DueAfter != nil {
		add("due_date >= $%d", *params.DueAfter)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// buildTaskOrder maps the order parameters onto a fixed set of clauses.
// Column and direction are never interpolated from raw input.
func buildTaskOrder(orderBy, orderDir string) (string, error) {
	var column string
	switch orderBy {
	case "", "due_date":
		column = "due_date"
	case "created_at":
		column = "created_at"
	case "priority":
		// Semantic ordering, not alphabetical.
		column = `CASE priority
			WHEN 'urgent' THEN 0
			WHEN 'high' THEN 1
			WHEN 'medium' THEN 2
			WHEN 'low' THEN 3
		END`
	default:
		return "", fmt.Errorf("unsupported order field: %s", orderBy)
	}

	var direction string
	switch orderDir {
	case "", "asc":
		direction = "ASC"
	case "desc":
		direction = "DESC"
	default:
		return "", fmt.Errorf("unsupported order direction: %s", orderDir)
	}

	// Stable tiebreak on creation time.
	return fmt.Sprintf("ORDER BY %s %s, created_at ASC", column, direction), nil
}

// UpdateTaskStatus writes a task's new status, setting or clearing the
// completion timestamp, and returns the updated row.
func (s *Store) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus, completedAt *time.Time) (*domain.Task, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE tasks
		SET status = $2, completed_at = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns, taskID, string(status), completedAt)
	return scanTask(row)
}
