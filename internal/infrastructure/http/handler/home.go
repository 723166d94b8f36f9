package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upkeephq/upkeep/internal/application/inventory"
	"github.com/upkeephq/upkeep/internal/infrastructure/http/response"
)

type createHomeRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type updateHomeRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// CreateHome handles POST /v1/homes.
func (h *Handler) CreateHome(w http.ResponseWriter, r *http.Request) {
	var req createHomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	home, err := h.inventory.CreateHome(r.Context(), inventory.CreateHomeParams{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, MapHomeToDTO(home))
}

// ListHomes handles GET /v1/homes.
func (h *Handler) ListHomes(w http.ResponseWriter, r *http.Request) {
	homes, err := h.inventory.ListHomes(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]HomeDTO, 0, len(homes))
	for _, home := range homes {
		dtos = append(dtos, MapHomeToDTO(home))
	}
	response.OK(w, map[string]any{"homes": dtos})
}

// GetHome handles GET /v1/homes/{homeID}.
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.inventory.GetHome(r.Context(), chi.URLParam(r, "homeID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapHomeToDTO(home))
}

// UpdateHome handles PATCH /v1/homes/{homeID}.
func (h *Handler) UpdateHome(w http.ResponseWriter, r *http.Request) {
	var req updateHomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	home, err := h.inventory.UpdateHome(r.Context(), inventory.UpdateHomeParams{
		HomeID:  chi.URLParam(r, "homeID"),
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapHomeToDTO(home))
}

// DeleteHome handles DELETE /v1/homes/{homeID}.
func (h *Handler) DeleteHome(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.DeleteHome(r.Context(), chi.URLParam(r, "homeID")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
