package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/domain"
)

// Service implements home and asset inventory management.
type Service struct {
	repo        Repository
	attachments AttachmentStore
	now         func() time.Time
}

// Option is a functional option for configuring Service.
type Option func(*Service)

// WithNowFunc overrides the time source, used in tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an inventory service. The attachment store may be nil
// when attachments are disabled; attachment operations then fail with
// ErrAttachmentNotFound.
func NewService(repo Repository, attachments AttachmentStore, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		attachments: attachments,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateHomeParams carries the user-supplied fields for a new home.
type CreateHomeParams struct {
	Name    string
	Address string
}

// CreateHome creates a new home.
func (s *Service) CreateHome(ctx context.Context, params CreateHomeParams) (*domain.Home, error) {
	name, err := domain.NewName(params.Name)
	if err != nil {
		return nil, err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate home id: %w", err)
	}

	now := s.now()
	home := &domain.Home{
		ID:        idObj.String(),
		Name:      name.String(),
		Address:   params.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.repo.CreateHome(ctx, home)
}

// GetHome returns a home by ID.
func (s *Service) GetHome(ctx context.Context, id string) (*domain.Home, error) {
	if id == "" {
		return nil, domain.ErrHomeNotFound
	}
	return s.repo.FindHomeByID(ctx, id)
}

// ListHomes returns all homes.
func (s *Service) ListHomes(ctx context.Context) ([]*domain.Home, error) {
	return s.repo.FindHomes(ctx)
}

// UpdateHomeParams carries the fields for a home update. Empty name keeps the
// current one.
type UpdateHomeParams struct {
	HomeID  string
	Name    *string
	Address *string
}

// UpdateHome updates a home's name and address.
func (s *Service) UpdateHome(ctx context.Context, params UpdateHomeParams) (*domain.Home, error) {
	home, err := s.repo.FindHomeByID(ctx, params.HomeID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name, err := domain.NewName(*params.Name)
		if err != nil {
			return nil, err
		}
		home.Name = name.String()
	}
	if params.Address != nil {
		home.Address = *params.Address
	}
	home.UpdatedAt = s.now()

	return s.repo.UpdateHome(ctx, home)
}

// DeleteHome removes a home and everything under it.
func (s *Service) DeleteHome(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrHomeNotFound
	}
	return s.repo.DeleteHome(ctx, id)
}

// CreateAssetParams carries the user-supplied fields for a new asset.
type CreateAssetParams struct {
	HomeID       string
	Name         string
	Category     string
	Manufacturer string
	ModelNumber  string
	SerialNumber string
	Notes        string
	PurchaseDate *time.Time
}

// CreateAsset creates a new asset under an existing home.
func (s *Service) CreateAsset(ctx context.Context, params CreateAssetParams) (*domain.Asset, error) {
	name, err := domain.NewName(params.Name)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindHomeByID(ctx, params.HomeID); err != nil {
		return nil, err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate asset id: %w", err)
	}

	now := s.now()
	asset := &domain.Asset{
		ID:           idObj.String(),
		HomeID:       params.HomeID,
		Name:         name.String(),
		Category:     params.Category,
		Manufacturer: params.Manufacturer,
		ModelNumber:  params.ModelNumber,
		SerialNumber: params.SerialNumber,
		Notes:        params.Notes,
		PurchaseDate: params.PurchaseDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.CreateAsset(ctx, asset)
}

// GetAsset returns an asset, verifying it belongs to the given home.
func (s *Service) GetAsset(ctx context.Context, homeID, assetID string) (*domain.Asset, error) {
	if assetID == "" {
		return nil, domain.ErrAssetNotFound
	}

	asset, err := s.repo.FindAssetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.HomeID != homeID {
		return nil, domain.ErrAssetNotFound
	}
	return asset, nil
}

// ListAssets returns all assets for a home.
func (s *Service) ListAssets(ctx context.Context, homeID string) ([]*domain.Asset, error) {
	if _, err := s.repo.FindHomeByID(ctx, homeID); err != nil {
		return nil, err
	}
	return s.repo.FindAssetsByHome(ctx, homeID)
}

// UpdateAsset applies a field-masked update after validating mask fields and
// ownership.
func (s *Service) UpdateAsset(ctx context.Context, params domain.UpdateAssetParams) (*domain.Asset, error) {
	if len(params.UpdateMask) == 0 {
		return nil, fmt.Errorf("%w: update mask is required", domain.ErrInvalidUpdateMask)
	}

	for _, field := range params.UpdateMask {
		switch field {
		case domain.FieldAssetName, domain.FieldAssetCategory, domain.FieldAssetManufacturer,
			domain.FieldAssetModelNumber, domain.FieldAssetSerialNumber,
			domain.FieldAssetNotes, domain.FieldAssetPurchaseDate:
		default:
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidUpdateMask, field)
		}

		if field == domain.FieldAssetName && params.Name != nil {
			if _, err := domain.NewName(*params.Name); err != nil {
				return nil, err
			}
		}
	}

	if _, err := s.GetAsset(ctx, params.HomeID, params.AssetID); err != nil {
		return nil, err
	}

	return s.repo.UpdateAsset(ctx, params)
}

// DeleteAsset removes an asset after verifying ownership.
func (s *Service) DeleteAsset(ctx context.Context, homeID, assetID string) error {
	if _, err := s.GetAsset(ctx, homeID, assetID); err != nil {
		return err
	}
	return s.repo.DeleteAsset(ctx, assetID)
}
