package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/upkeephq/upkeep/internal/application/inventory"
	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/infrastructure/http/response"
)

type createAssetRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Manufacturer string  `json:"manufacturer"`
	ModelNumber  string  `json:"model_number"`
	SerialNumber string  `json:"serial_number"`
	Notes        string  `json:"notes"`
	PurchaseDate *string `json:"purchase_date"`
}

type updateAssetRequest struct {
	UpdateMask   []string `json:"update_mask"`
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Manufacturer *string  `json:"manufacturer"`
	ModelNumber  *string  `json:"model_number"`
	SerialNumber *string  `json:"serial_number"`
	Notes        *string  `json:"notes"`
	PurchaseDate *string  `json:"purchase_date"`
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, *s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateAsset handles POST /v1/homes/{homeID}/assets.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		response.ValidationError(w, "purchase_date", "must be a date in YYYY-MM-DD format")
		return
	}

	asset, err := h.inventory.CreateAsset(r.Context(), inventory.CreateAssetParams{
		HomeID:       chi.URLParam(r, "homeID"),
		Name:         req.Name,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		ModelNumber:  req.ModelNumber,
		SerialNumber: req.SerialNumber,
		Notes:        req.Notes,
		PurchaseDate: purchaseDate,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, MapAssetToDTO(asset))
}

// ListAssets handles GET /v1/homes/{homeID}/assets.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.inventory.ListAssets(r.Context(), chi.URLParam(r, "homeID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]AssetDTO, 0, len(assets))
	for _, a := range assets {
		dtos = append(dtos, MapAssetToDTO(a))
	}
	response.OK(w, map[string]any{"assets": dtos})
}

// GetAsset handles GET /v1/homes/{homeID}/assets/{assetID}.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.inventory.GetAsset(r.Context(), chi.URLParam(r, "homeID"), chi.URLParam(r, "assetID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapAssetToDTO(asset))
}

// UpdateAsset handles PATCH /v1/homes/{homeID}/assets/{assetID}.
func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		response.ValidationError(w, "purchase_date", "must be a date in YYYY-MM-DD format")
		return
	}

	asset, err := h.inventory.UpdateAsset(r.Context(), domain.UpdateAssetParams{
		AssetID:      chi.URLParam(r, "assetID"),
		HomeID:       chi.URLParam(r, "homeID"),
		UpdateMask:   req.UpdateMask,
		Name:         req.Name,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		ModelNumber:  req.ModelNumber,
		SerialNumber: req.SerialNumber,
		Notes:        req.Notes,
		PurchaseDate: purchaseDate,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapAssetToDTO(asset))
}

// DeleteAsset handles DELETE /v1/homes/{homeID}/assets/{assetID}.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	err := h.inventory.DeleteAsset(r.Context(), chi.URLParam(r, "homeID"), chi.URLParam(r, "assetID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
