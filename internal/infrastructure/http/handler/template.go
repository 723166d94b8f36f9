package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upkeephq/upkeep/internal/application/maintenance"
	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/infrastructure/http/response"
)

type createTemplateRequest struct {
	PackID              *string  `json:"pack_id"`
	Name                string   `json:"name"`
	Category            string   `json:"category"`
	Description         string   `json:"description"`
	DefaultFrequency    string   `json:"default_frequency"`
	CustomFrequencyDays *int     `json:"custom_frequency_days"`
	EstimatedMinutes    int      `json:"estimated_minutes"`
	Difficulty          string   `json:"difficulty"`
	Instructions        []string `json:"instructions"`
	Tools               []string `json:"tools"`
	SafetyNotes         []string `json:"safety_notes"`
}

// CreateTemplate handles POST /v1/templates.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	template, err := h.maintenance.CreateTemplate(r.Context(), &domain.MaintenanceTemplate{
		PackID:              req.PackID,
		Name:                req.Name,
		Category:            req.Category,
		Description:         req.Description,
		DefaultFrequency:    domain.Frequency(req.DefaultFrequency),
		CustomFrequencyDays: req.CustomFrequencyDays,
		EstimatedMinutes:    req.EstimatedMinutes,
		Difficulty:          domain.Difficulty(req.Difficulty),
		Instructions:        req.Instructions,
		Tools:               req.Tools,
		SafetyNotes:         req.SafetyNotes,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, MapTemplateToDTO(template))
}

// ListTemplates handles GET /v1/templates. The active_only query parameter
// limits results to active templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	templates, err := h.maintenance.ListTemplates(r.Context(), activeOnly)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]TemplateDTO, 0, len(templates))
	for _, t := range templates {
		dtos = append(dtos, MapTemplateToDTO(t))
	}
	response.OK(w, map[string]any{"templates": dtos})
}

// GetTemplate handles GET /v1/templates/{templateID}.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := h.maintenance.GetTemplate(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapTemplateToDTO(template))
}

// ListPacks handles GET /v1/packs.
func (h *Handler) ListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := h.maintenance.ListPacks(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]PackDTO, 0, len(packs))
	for _, p := range packs {
		dtos = append(dtos, MapPackToDTO(p))
	}
	response.OK(w, map[string]any{"packs": dtos})
}

type applyPackRequest struct {
	AssetID   string `json:"asset_id"`
	WholeHome bool   `json:"whole_home"`
}

// ApplyPack handles POST /v1/homes/{homeID}/packs/{packID}/apply.
// The batch always completes; per-template failures come back in the result
// body, not as an HTTP error.
func (h *Handler) ApplyPack(w http.ResponseWriter, r *http.Request) {
	var req applyPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	if req.WholeHome == (req.AssetID != "") {
		response.ValidationError(w, "asset_id", "exactly one of asset_id or whole_home is required")
		return
	}

	result, err := h.maintenance.ApplyTemplatePack(r.Context(), maintenance.ApplyPackParams{
		PackID:    chi.URLParam(r, "packID"),
		HomeID:    chi.URLParam(r, "homeID"),
		AssetID:   req.AssetID,
		WholeHome: req.WholeHome,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapApplyResultToDTO(result))
}

// ListSchedules handles GET /v1/homes/{homeID}/assets/{assetID}/schedules.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	// Ownership check happens against the inventory service first.
	if _, err := h.inventory.GetAsset(r.Context(), chi.URLParam(r, "homeID"), chi.URLParam(r, "assetID")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	activeOnly := r.URL.Query().Get("active_only") == "true"
	schedules, err := h.maintenance.ListSchedules(r.Context(), chi.URLParam(r, "assetID"), activeOnly)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]ScheduleDTO, 0, len(schedules))
	for _, s := range schedules {
		dtos = append(dtos, MapScheduleToDTO(s))
	}
	response.OK(w, map[string]any{"schedules": dtos})
}

// DeactivateSchedule handles DELETE /v1/schedules/{scheduleID}.
// Existing tasks survive; only future generation stops.
func (h *Handler) DeactivateSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.maintenance.DeactivateSchedule(r.Context(), chi.URLParam(r, "scheduleID")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
