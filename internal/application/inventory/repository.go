package inventory

import (
	"context"

	"github.com/upkeephq/upkeep/internal/domain"
)

// Repository defines the persistence operations the inventory service needs.
// Implementations return domain errors (ErrHomeNotFound, ErrAssetNotFound) for
// missing rows.
type Repository interface {
	// CreateHome persists a new home.
	CreateHome(ctx context.Context, home *domain.Home) (*domain.Home, error)

	// FindHomeByID returns one home.
	FindHomeByID(ctx context.Context, id string) (*domain.Home, error)

	// FindHomes returns all homes.
	FindHomes(ctx context.Context) ([]*domain.Home, error)

	// UpdateHome overwrites a home's mutable fields.
	UpdateHome(ctx context.Context, home *domain.Home) (*domain.Home, error)

	// DeleteHome removes a home and cascades to its assets, schedules, and
	// tasks.
	DeleteHome(ctx context.Context, id string) error

	// CreateAsset persists a new asset under a home.
	CreateAsset(ctx context.Context, asset *domain.Asset) (*domain.Asset, error)

	// FindAssetByID returns one asset.
	FindAssetByID(ctx context.Context, id string) (*domain.Asset, error)

	// FindAssetsByHome returns all assets for a home.
	FindAssetsByHome(ctx context.Context, homeID string) ([]*domain.Asset, error)

	// UpdateAsset applies a field-masked update and returns the updated asset.
	UpdateAsset(ctx context.Context, params domain.UpdateAssetParams) (*domain.Asset, error)

	// DeleteAsset removes an asset, deactivating its schedules first.
	DeleteAsset(ctx context.Context, id string) error
}
