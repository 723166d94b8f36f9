package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/upkeephq/upkeep/internal/domain"
)

const templateColumns = `id, pack_id, name, category, description, default_frequency,
	custom_frequency_days, estimated_minutes, difficulty, instructions, tools,
	safety_notes, is_active, created_at, updated_at`

func scanTemplate(row pgx.Row) (*domain.MaintenanceTemplate, error) {
	var t domain.MaintenanceTemplate
	var frequency, difficulty string
	err := row.Scan(&t.ID, &t.PackID, &t.Name, &t.Category, &t.Description,
		&frequency, &t.CustomFrequencyDays, &t.EstimatedMinutes, &difficulty,
		&t.Instructions, &t.Tools, &t.SafetyNotes, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}
	t.DefaultFrequency = domain.Frequency(frequency)
	t.Difficulty = domain.Difficulty(difficulty)
	return &t, nil
}

// CreateTemplate persists a new maintenance template.
func (s *Store) CreateTemplate(ctx context.Context, template *domain.MaintenanceTemplate) (*domain.MaintenanceTemplate, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO maintenance_templates (id, pack_id, name, category, description,
			default_frequency, custom_frequency_days, estimated_minutes, difficulty,
			instructions, tools, safety_notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		template.ID, template.PackID, template.Name, template.Category,
		template.Description, string(template.DefaultFrequency),
		template.CustomFrequencyDays, template.EstimatedMinutes,
		string(template.Difficulty), template.Instructions, template.Tools,
		template.SafetyNotes, template.IsActive, template.CreatedAt, template.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert template: %w", err)
	}
	return template, nil
}

// FindTemplateByID returns one template.
func (s *Store) FindTemplateByID(ctx context.Context, id string) (*domain.MaintenanceTemplate, error) {
	row := s.db.QueryRow(ctx, `SELECT `+templateColumns+` FROM maintenance_templates WHERE id = $1`, id)
	return scanTemplate(row)
}

// FindTemplates returns all templates, optionally only active ones.
func (s *Store) FindTemplates(ctx context.Context, activeOnly bool) ([]*domain.MaintenanceTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM maintenance_templates`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()
	return collectTemplates(rows)
}

// FindActiveTemplatesInPack returns the active templates of a pack ordered by
// name, so batch results come back in a stable order.
func (s *Store) FindActiveTemplatesInPack(ctx context.Context, packID string) ([]*domain.MaintenanceTemplate, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+templateColumns+` FROM maintenance_templates
		WHERE pack_id = $1 AND is_active
		ORDER BY name`, packID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pack templates: %w", err)
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func collectTemplates(rows pgx.Rows) ([]*domain.MaintenanceTemplate, error) {
	var templates []*domain.MaintenanceTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// FindPacks returns all template packs with their template counts.
func (s *Store) FindPacks(ctx context.Context) ([]*domain.TemplatePack, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, p.description, p.created_at,
			COUNT(t.id) FILTER (WHERE t.is_active) AS template_count
		FROM template_packs p
		LEFT JOIN maintenance_templates t ON t.pack_id = p.id
		GROUP BY p.id
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query packs: %w", err)
	}
	defer rows.Close()

	var packs []*domain.TemplatePack
	for rows.Next() {
		var p domain.TemplatePack
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.TemplateCount); err != nil {
			return nil, fmt.Errorf("failed to scan pack: %w", err)
		}
		packs = append(packs, &p)
	}
	return packs, rows.Err()
}

// FindPackByID returns one pack with its active template count.
func (s *Store) FindPackByID(ctx context.Context, id string) (*domain.TemplatePack, error) {
	var p domain.TemplatePack
	err := s.db.QueryRow(ctx, `
		SELECT p.id, p.name, p.description, p.created_at,
			COUNT(t.id) FILTER (WHERE t.is_active) AS template_count
		FROM template_packs p
		LEFT JOIN maintenance_templates t ON t.pack_id = p.id
		WHERE p.id = $1
		GROUP BY p.id`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.TemplateCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackNotFound
		}
		return nil, fmt.Errorf("failed to scan pack: %w", err)
	}
	return &p, nil
}

const scheduleColumns = `id, asset_id, template_id, frequency, custom_frequency_days,
	next_due_date, last_completed_date, is_active, created_at, updated_at`

func scanSchedule(row pgx.Row) (*domain.RecurringSchedule, error) {
	var sched domain.RecurringSchedule
	var frequency string
	err := row.Scan(&sched.ID, &sched.AssetID, &sched.TemplateID, &frequency,
		&sched.CustomFrequencyDays, &sched.NextDueDate, &sched.LastCompletedDate,
		&sched.IsActive, &sched.CreatedAt, &sched.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}
	sched.Frequency = domain.Frequency(frequency)
	return &sched, nil
}

// FindScheduleForAssetTemplate returns the schedule for one (asset, template)
// pair, active or not.
func (s *Store) FindScheduleForAssetTemplate(ctx context.Context, assetID, templateID string) (*domain.RecurringSchedule, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+scheduleColumns+` FROM recurring_schedules
		WHERE asset_id = $1 AND template_id = $2`, assetID, templateID)
	return scanSchedule(row)
}

// FindSchedulesByAsset returns all schedules attached to an asset.
func (s *Store) FindSchedulesByAsset(ctx context.Context, assetID string, activeOnly bool) ([]*domain.RecurringSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM recurring_schedules WHERE asset_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*domain.RecurringSchedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	return schedules, rows.Err()
}

// CreateScheduleWithSeedTask inserts a schedule and its first task in one
// transaction. A concurrent insert for the same (asset, template) pair
// surfaces as ErrScheduleAlreadyActive.
func (s *Store) CreateScheduleWithSeedTask(ctx context.Context, sched *domain.RecurringSchedule, seed *domain.Task) (*domain.RecurringSchedule, error) {
	err := s.executeInTransaction(ctx, "create_schedule_with_seed", func(tx *Store) error {
		_, err := tx.db.Exec(ctx, `
			INSERT INTO recurring_schedules (id, asset_id, template_id, frequency,
				custom_frequency_days, next_due_date, last_completed_date, is_active,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			sched.ID, sched.AssetID, sched.TemplateID, string(sched.Frequency),
			sched.CustomFrequencyDays, sched.NextDueDate, sched.LastCompletedDate,
			sched.IsActive, sched.CreatedAt, sched.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, "uq_schedule_asset_template") {
				return domain.ErrScheduleAlreadyActive
			}
			return fmt.Errorf("failed to insert schedule: %w", err)
		}

		if _, err := tx.CreateTask(ctx, seed); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}

// ReactivateScheduleWithSeedTask flips an inactive schedule back on with a
// fresh cadence anchor and inserts its first task, in one transaction.
func (s *Store) ReactivateScheduleWithSeedTask(ctx context.Context, scheduleID string, nextDue time.Time, seed *domain.Task) (*domain.RecurringSchedule, error) {
	var sched *domain.RecurringSchedule
	err := s.executeInTransaction(ctx, "reactivate_schedule_with_seed", func(tx *Store) error {
		row := tx.db.QueryRow(ctx, `
			UPDATE recurring_schedules
			SET is_active = TRUE, next_due_date = $2, updated_at = now()
			WHERE id = $1 AND NOT is_active
			RETURNING `+scheduleColumns, scheduleID, nextDue)

		var err error
		sched, err = scanSchedule(row)
		if err != nil {
			return err
		}

		if _, err := tx.CreateTask(ctx, seed); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}

// DeactivateSchedule stops future task generation for a schedule.
func (s *Store) DeactivateSchedule(ctx context.Context, scheduleID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE recurring_schedules
		SET is_active = FALSE, updated_at = now()
		WHERE id = $1`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to deactivate schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

// SetScheduleLastCompleted records when a schedule's task was last finished.
// The next due date is left alone so the cadence stays anchored.
func (s *Store) SetScheduleLastCompleted(ctx context.Context, scheduleID string, completedAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE recurring_schedules
		SET last_completed_date = $2, updated_at = now()
		WHERE id = $1`, scheduleID, completedAt)
	if err != nil {
		return fmt.Errorf("failed to update schedule completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}
