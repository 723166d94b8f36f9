package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/upkeephq/upkeep/internal/domain"
)

// FindDueSchedules returns active schedules whose next due date is on or
// before asOf, joined with their templates and owning homes.
func (s *Store) FindDueSchedules(ctx context.Context, asOf time.Time) ([]*domain.DueSchedule, error) {
	rows, err := s.db.Query(ctx, `
		SELECT
			rs.id, rs.asset_id, rs.template_id, rs.frequency, rs.custom_frequency_days,
			rs.next_due_date, rs.last_completed_date, rs.is_active, rs.created_at, rs.updated_at,
			mt.id, mt.pack_id, mt.name, mt.category, mt.description, mt.default_frequency,
			mt.custom_frequency_days, mt.estimated_minutes, mt.difficulty,
			mt.instructions, mt.tools, mt.safety_notes, mt.is_active, mt.created_at, mt.updated_at,
			a.home_id
		FROM recurring_schedules rs
		JOIN maintenance_templates mt ON mt.id = rs.template_id
		JOIN assets a ON a.id = rs.asset_id
		WHERE rs.is_active AND rs.next_due_date <= $1
		ORDER BY rs.next_due_date, rs.id`, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}
	defer rows.Close()

	var due []*domain.DueSchedule
	for rows.Next() {
		var d domain.DueSchedule
		var schedFreq, tplFreq, tplDifficulty string
		err := rows.Scan(
			&d.Schedule.ID, &d.Schedule.AssetID, &d.Schedule.TemplateID, &schedFreq,
			&d.Schedule.CustomFrequencyDays, &d.Schedule.NextDueDate,
			&d.Schedule.LastCompletedDate, &d.Schedule.IsActive,
			&d.Schedule.CreatedAt, &d.Schedule.UpdatedAt,
			&d.Template.ID, &d.Template.PackID, &d.Template.Name, &d.Template.Category,
			&d.Template.Description, &tplFreq, &d.Template.CustomFrequencyDays,
			&d.Template.EstimatedMinutes, &tplDifficulty, &d.Template.Instructions,
			&d.Template.Tools, &d.Template.SafetyNotes, &d.Template.IsActive,
			&d.Template.CreatedAt, &d.Template.UpdatedAt,
			&d.HomeID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due schedule: %w", err)
		}
		d.Schedule.Frequency = domain.Frequency(schedFreq)
		d.Template.DefaultFrequency = domain.Frequency(tplFreq)
		d.Template.Difficulty = domain.Difficulty(tplDifficulty)
		due = append(due, &d)
	}
	return due, rows.Err()
}

// MaterializeSchedule inserts the task for one schedule cycle and advances the
// schedule's next due date, in one transaction. The insert ignores conflicts
// on (schedule_id, generated_for); the cycle may already be occupied by a
// concurrent sweep or by the seed task a pack application created, so the
// advance runs either way. It is guarded by the old next_due_date, which keeps
// a losing concurrent sweep from repeating the winner's advance.
// Returns whether the task row was actually inserted.
func (s *Store) MaterializeSchedule(ctx context.Context, task *domain.Task, scheduleID string, nextDue time.Time) (bool, error) {
	var inserted bool
	err := s.executeInTransaction(ctx, "materialize_schedule", func(tx *Store) error {
		tag, err := tx.db.Exec(ctx, `
			INSERT INTO tasks (id, home_id, asset_id, template_id, schedule_id, title,
				description, due_date, priority, status, generated_for, completed_at,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (schedule_id, generated_for) WHERE schedule_id IS NOT NULL AND generated_for IS NOT NULL
			DO NOTHING`,
			task.ID, task.HomeID, task.AssetID, task.TemplateID, task.ScheduleID,
			task.Title, task.Description, task.DueDate, string(task.Priority),
			string(task.Status), task.GeneratedFor, task.CompletedAt,
			task.CreatedAt, task.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert generated task: %w", err)
		}
		inserted = tag.RowsAffected() > 0

		tag, err = tx.db.Exec(ctx, `
			UPDATE recurring_schedules
			SET next_due_date = $2, updated_at = now()
			WHERE id = $1 AND is_active AND next_due_date = $3`,
			scheduleID, nextDue, task.GeneratedFor)
		if err != nil {
			return fmt.Errorf("failed to advance schedule: %w", err)
		}
		if inserted && tag.RowsAffected() == 0 {
			return domain.ErrScheduleNotFound
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// MarkOverdueTasks flips pending tasks due strictly before the cutoff to
// overdue in one set-based statement. Returns the number of rows updated.
func (s *Store) MarkOverdueTasks(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE tasks
		SET status = 'overdue', updated_at = now()
		WHERE status = 'pending' AND due_date < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}
