// Package maintenance provides business logic for maintenance templates,
// template packs, recurring schedules, and tasks.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/domain"
)

// Default configuration values.
const (
	DefaultPageSize     = 25
	MaxPageSize         = 100
	DefaultApplyTimeout = 30 * time.Second
)

// Config holds configuration for the Service.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int

	// ApplyTimeout bounds a whole pack-apply batch so one slow store call
	// cannot hang the invoking request indefinitely.
	ApplyTimeout time.Duration
}

// Service provides business logic for maintenance management.
// It orchestrates operations using the Repository interface.
type Service struct {
	repo   Repository
	config Config
	now    func() time.Time
}

// Option is a functional option for configuring Service.
type Option func(*Service)

// WithNowFunc overrides the clock. Used in tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new maintenance service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, config Config, opts ...Option) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}
	if config.ApplyTimeout <= 0 {
		config.ApplyTimeout = DefaultApplyTimeout
	}

	s := &Service{
		repo:   repo,
		config: config,
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateTemplate creates a new maintenance template.
func (s *Service) CreateTemplate(ctx context.Context, template *domain.MaintenanceTemplate) (*domain.MaintenanceTemplate, error) {
	name, err := domain.NewName(template.Name)
	if err != nil {
		return nil, err
	}
	template.Name = name.String()

	freq, err := domain.NewFrequency(string(template.DefaultFrequency))
	if err != nil {
		return nil, err
	}
	template.DefaultFrequency = freq

	if freq == domain.FrequencyCustom &&
		(template.CustomFrequencyDays == nil || *template.CustomFrequencyDays <= 0) {
		return nil, domain.ErrCustomDaysRequired
	}

	difficulty, err := domain.NewDifficulty(string(template.Difficulty))
	if err != nil {
		return nil, err
	}
	template.Difficulty = difficulty

	if template.ID == "" {
		idObj, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate id: %w", err)
		}
		template.ID = idObj.String()
	}

	now := s.now()
	template.CreatedAt = now
	template.UpdatedAt = now
	template.IsActive = true

	created, err := s.repo.CreateTemplate(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return created, nil
}

// GetTemplate retrieves a template by ID.
func (s *Service) GetTemplate(ctx context.Context, id string) (*domain.MaintenanceTemplate, error) {
	if id == "" {
		return nil, domain.ErrTemplateNotFound
	}
	return s.repo.FindTemplateByID(ctx, id)
}

// ListTemplates lists maintenance templates.
func (s *Service) ListTemplates(ctx context.Context, activeOnly bool) ([]*domain.MaintenanceTemplate, error) {
	templates, err := s.repo.FindTemplates(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// ListPacks lists template packs with their template counts.
func (s *Service) ListPacks(ctx context.Context) ([]*domain.TemplatePack, error) {
	packs, err := s.repo.FindPacks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	return packs, nil
}

// ListSchedules lists recurring schedules for an asset.
func (s *Service) ListSchedules(ctx context.Context, assetID string, activeOnly bool) ([]*domain.RecurringSchedule, error) {
	if assetID == "" {
		return nil, domain.ErrAssetNotFound
	}

	schedules, err := s.repo.FindSchedulesByAsset(ctx, assetID, activeOnly)
	if err != nil {
		return nil, err // Repository returns domain errors
	}

	return schedules, nil
}

// DeactivateSchedule soft-deletes a recurring schedule. Future task
// generation stops; already-created tasks are untouched.
func (s *Service) DeactivateSchedule(ctx context.Context, scheduleID string) error {
	if scheduleID == "" {
		return domain.ErrScheduleNotFound
	}

	return s.repo.DeactivateSchedule(ctx, scheduleID)
}
