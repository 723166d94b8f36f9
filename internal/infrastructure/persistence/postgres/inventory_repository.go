package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/upkeephq/upkeep/internal/domain"
)

const homeColumns = "id, name, address, created_at, updated_at"

func scanHome(row pgx.Row) (*domain.Home, error) {
	var h domain.Home
	err := row.Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHomeNotFound
		}
		return nil, fmt.Errorf("failed to scan home: %w", err)
	}
	return &h, nil
}

// CreateHome persists a new home.
func (s *Store) CreateHome(ctx context.Context, home *domain.Home) (*domain.Home, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO homes (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		home.ID, home.Name, home.Address, home.CreatedAt, home.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert home: %w", err)
	}
	return home, nil
}

// FindHomeByID returns one home.
func (s *Store) FindHomeByID(ctx context.Context, id string) (*domain.Home, error) {
	row := s.db.QueryRow(ctx, `SELECT `+homeColumns+` FROM homes WHERE id = $1`, id)
	return scanHome(row)
}

// FindHomes returns all homes ordered by creation time.
func (s *Store) FindHomes(ctx context.Context) ([]*domain.Home, error) {
	rows, err := s.db.Query(ctx, `SELECT `+homeColumns+` FROM homes ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query homes: %w", err)
	}
	defer rows.Close()

	var homes []*domain.Home
	for rows.Next() {
		h, err := scanHome(rows)
		if err != nil {
			return nil, err
		}
		homes = append(homes, h)
	}
	return homes, rows.Err()
}

// UpdateHome overwrites a home's mutable fields.
func (s *Store) UpdateHome(ctx context.Context, home *domain.Home) (*domain.Home, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE homes SET name = $2, address = $3, updated_at = $4
		WHERE id = $1`,
		home.ID, home.Name, home.Address, home.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update home: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrHomeNotFound
	}
	return home, nil
}

// DeleteHome removes a home. Assets, schedules, and tasks cascade at the
// schema level.
func (s *Store) DeleteHome(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM homes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete home: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHomeNotFound
	}
	return nil
}

const assetColumns = "id, home_id, name, category, manufacturer, model_number, serial_number, notes, purchase_date, created_at, updated_at"

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(&a.ID, &a.HomeID, &a.Name, &a.Category, &a.Manufacturer,
		&a.ModelNumber, &a.SerialNumber, &a.Notes, &a.PurchaseDate,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to scan asset: %w", err)
	}
	return &a, nil
}

// CreateAsset persists a new asset under a home.
func (s *Store) CreateAsset(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO assets (id, home_id, name, category, manufacturer, model_number,
			serial_number, notes, purchase_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		asset.ID, asset.HomeID, asset.Name, asset.Category, asset.Manufacturer,
		asset.ModelNumber, asset.SerialNumber, asset.Notes, asset.PurchaseDate,
		asset.CreatedAt, asset.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert asset: %w", err)
	}
	return asset, nil
}

// FindAssetByID returns one asset.
func (s *Store) FindAssetByID(ctx context.Context, id string) (*domain.Asset, error) {
	row := s.db.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	return scanAsset(row)
}

// FindAssetsByHome returns all assets for a home ordered by name.
func (s *Store) FindAssetsByHome(ctx context.Context, homeID string) ([]*domain.Asset, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+assetColumns+` FROM assets WHERE home_id = $1 ORDER BY name`, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// UpdateAsset applies a field-masked update and returns the updated asset.
// Fields outside the mask keep their stored values.
func (s *Store) UpdateAsset(ctx context.Context, params domain.UpdateAssetParams) (*domain.Asset, error) {
	set := "updated_at = now()"
	args := []any{params.AssetID, params.HomeID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	for _, field := range params.UpdateMask {
		switch field {
		case domain.FieldAssetName:
			appendSet("name", params.Name)
		case domain.FieldAssetCategory:
			appendSet("category", params.Category)
		case domain.FieldAssetManufacturer:
			appendSet("manufacturer", params.Manufacturer)
		case domain.FieldAssetModelNumber:
			appendSet("model_number", params.ModelNumber)
		case domain.FieldAssetSerialNumber:
			appendSet("serial_number", params.SerialNumber)
		case domain.FieldAssetNotes:
			appendSet("notes", params.Notes)
		case domain.FieldAssetPurchaseDate:
			appendSet("purchase_date", params.PurchaseDate)
		default:
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidUpdateMask, field)
		}
	}

	row := s.db.QueryRow(ctx, `
		UPDATE assets SET `+set+`
		WHERE id = $1 AND home_id = $2
		RETURNING `+assetColumns, args...)
	return scanAsset(row)
}

// DeleteAsset removes an asset. Its schedules cascade; tasks keep their home
// but lose the asset link.
func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}
