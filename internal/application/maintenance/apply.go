package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/schedule"
)

// ApplyOutcome tags the per-template result of a pack application.
type ApplyOutcome string

const (
	// OutcomeApplied means the template produced a schedule and/or task.
	OutcomeApplied ApplyOutcome = "applied"

	// OutcomeAlreadyApplied means the asset already has an active schedule for
	// the template. Reported as a failure, not escalated.
	OutcomeAlreadyApplied ApplyOutcome = "already_applied"

	// OutcomeFailed means the template hit a validation or store error.
	OutcomeFailed ApplyOutcome = "failed"
)

// ApplyPackParams identifies the pack and target of a batch application.
// Exactly one of AssetID or WholeHome applies; HomeID is always required.
type ApplyPackParams struct {
	PackID    string
	HomeID    string
	AssetID   string // Empty when WholeHome is set
	WholeHome bool
}

// TemplateApplyResult is the outcome for a single template in the batch.
type TemplateApplyResult struct {
	TemplateID   string       `json:"template_id"`
	TemplateName string       `json:"template_name"`
	Outcome      ApplyOutcome `json:"outcome"`
	Reason       string       `json:"reason,omitempty"`
	ScheduleID   *string      `json:"schedule_id,omitempty"`
	TaskID       *string      `json:"task_id,omitempty"`
}

// ApplyPackResult aggregates a pack application.
// The batch always completes; a mixed result is reported rather than aborting
// on the first per-template error.
type ApplyPackResult struct {
	SuccessCount int                   `json:"success_count"`
	FailCount    int                   `json:"fail_count"`
	Results      []TemplateApplyResult `json:"results"`
}

// ApplyTemplatePack applies every active template in a pack to a target.
//
// Whole-home targets get one standalone task per template (no recurring
// schedule). Asset targets get a recurring schedule plus its first task,
// created or reactivated in one transaction per template; an asset that
// already has an active schedule for a template yields an already-applied
// failure for that template and processing continues.
//
// Structural failures (unknown pack, unknown asset, unreachable store before
// any per-item work) propagate as whole-operation errors; everything after
// that point is isolated per template.
func (s *Service) ApplyTemplatePack(ctx context.Context, params ApplyPackParams) (*ApplyPackResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.ApplyTimeout)
	defer cancel()

	if params.PackID == "" {
		return nil, domain.ErrPackNotFound
	}
	if !params.WholeHome && params.AssetID == "" {
		return nil, fmt.Errorf("%w: apply target requires an asset or the whole-home flag", domain.ErrAssetNotFound)
	}

	if _, err := s.repo.FindPackByID(ctx, params.PackID); err != nil {
		return nil, err // Repository returns domain errors
	}

	var asset *domain.Asset
	if !params.WholeHome {
		var err error
		asset, err = s.repo.FindAssetByID(ctx, params.AssetID)
		if err != nil {
			return nil, err
		}
		if asset.HomeID != params.HomeID {
			return nil, domain.ErrAssetNotFound
		}
	}

	templates, err := s.repo.FindActiveTemplatesInPack(ctx, params.PackID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pack templates: %w", err)
	}

	now := s.now()
	result := &ApplyPackResult{}

	for _, tpl := range templates {
		item := s.applyOne(ctx, params, asset, tpl, now)
		if item.Outcome == OutcomeApplied {
			result.SuccessCount++
		} else {
			result.FailCount++
		}
		result.Results = append(result.Results, item)
	}

	slog.InfoContext(ctx, "template pack applied",
		"pack_id", params.PackID,
		"whole_home", params.WholeHome,
		"succeeded", result.SuccessCount,
		"failed", result.FailCount)

	return result, nil
}

// applyOne handles a single template; its errors never escape as errors, only
// as tagged results.
func (s *Service) applyOne(ctx context.Context, params ApplyPackParams, asset *domain.Asset, tpl *domain.MaintenanceTemplate, now time.Time) TemplateApplyResult {
	item := TemplateApplyResult{
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
	}

	// Due dates are day-granular; resolve from the UTC day boundary so the
	// time of day the pack was applied never leaks into the cadence.
	dueDate, err := schedule.NextDueDate(schedule.StartOfDay(now), tpl.DefaultFrequency, tpl.CustomFrequencyDays)
	if err != nil {
		item.Outcome = OutcomeFailed
		item.Reason = err.Error()
		return item
	}

	if params.WholeHome {
		task, err := s.createStandaloneTask(ctx, params.HomeID, tpl, dueDate, now)
		if err != nil {
			item.Outcome = OutcomeFailed
			item.Reason = err.Error()
			return item
		}
		item.Outcome = OutcomeApplied
		item.TaskID = &task.ID
		return item
	}

	sched, task, err := s.applyToAsset(ctx, asset, tpl, dueDate, now)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleAlreadyActive) {
			item.Outcome = OutcomeAlreadyApplied
			item.Reason = err.Error()
			return item
		}
		item.Outcome = OutcomeFailed
		item.Reason = err.Error()
		return item
	}

	item.Outcome = OutcomeApplied
	item.ScheduleID = &sched.ID
	item.TaskID = &task.ID
	return item
}

// createStandaloneTask materializes a one-off whole-home task from a template.
func (s *Service) createStandaloneTask(ctx context.Context, homeID string, tpl *domain.MaintenanceTemplate, dueDate, now time.Time) (*domain.Task, error) {
	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task id: %w", err)
	}

	task := &domain.Task{
		ID:          idObj.String(),
		HomeID:      homeID,
		TemplateID:  &tpl.ID,
		Title:       tpl.Name,
		Description: tpl.Description,
		DueDate:     dueDate,
		Priority:    domain.TaskPriorityMedium,
		Status:      domain.TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.CreateTask(ctx, task)
}

// applyToAsset creates or reactivates the (asset, template) schedule and its
// seed task. The schedule write and its seed task land in one transaction;
// templates in the pack remain independent of each other.
func (s *Service) applyToAsset(ctx context.Context, asset *domain.Asset, tpl *domain.MaintenanceTemplate, dueDate, now time.Time) (*domain.RecurringSchedule, *domain.Task, error) {
	existing, err := s.repo.FindScheduleForAssetTemplate(ctx, asset.ID, tpl.ID)
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, nil, domain.ErrScheduleAlreadyActive
		}

		seed, err := s.seedTask(asset, tpl, existing.ID, dueDate, now)
		if err != nil {
			return nil, nil, err
		}

		reactivated, err := s.repo.ReactivateScheduleWithSeedTask(ctx, existing.ID, dueDate, seed)
		if err != nil {
			return nil, nil, err
		}
		return reactivated, seed, nil

	case errors.Is(err, domain.ErrScheduleNotFound):
		schedIDObj, err := uuid.NewV7()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate schedule id: %w", err)
		}

		sched := &domain.RecurringSchedule{
			ID:                  schedIDObj.String(),
			AssetID:             asset.ID,
			TemplateID:          tpl.ID,
			Frequency:           tpl.DefaultFrequency,
			CustomFrequencyDays: tpl.CustomFrequencyDays,
			NextDueDate:         dueDate,
			IsActive:            true,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		seed, err := s.seedTask(asset, tpl, sched.ID, dueDate, now)
		if err != nil {
			return nil, nil, err
		}

		created, err := s.repo.CreateScheduleWithSeedTask(ctx, sched, seed)
		if err != nil {
			return nil, nil, err
		}
		return created, seed, nil

	default:
		return nil, nil, err
	}
}

// seedTask builds the first task for a freshly provisioned schedule.
func (s *Service) seedTask(asset *domain.Asset, tpl *domain.MaintenanceTemplate, scheduleID string, dueDate, now time.Time) (*domain.Task, error) {
	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task id: %w", err)
	}

	return &domain.Task{
		ID:           idObj.String(),
		HomeID:       asset.HomeID,
		AssetID:      &asset.ID,
		TemplateID:   &tpl.ID,
		ScheduleID:   &scheduleID,
		Title:        tpl.Name,
		Description:  tpl.Description,
		DueDate:      dueDate,
		Priority:     domain.TaskPriorityMedium,
		Status:       domain.TaskStatusPending,
		GeneratedFor: &dueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
