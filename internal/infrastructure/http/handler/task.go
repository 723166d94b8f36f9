package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/upkeephq/upkeep/internal/application/maintenance"
	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/infrastructure/http/response"
	"github.com/upkeephq/upkeep/internal/ptr"
)

type createTaskRequest struct {
	AssetID     *string `json:"asset_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    string  `json:"priority"`
}

// CreateTask handles POST /v1/homes/{homeID}/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	var dueDate time.Time
	if req.DueDate != nil {
		parsed, err := parseDatePtr(req.DueDate)
		if err != nil {
			response.ValidationError(w, "due_date", "must be a date in YYYY-MM-DD format")
			return
		}
		if parsed != nil {
			dueDate = *parsed
		}
	}

	task, err := h.maintenance.CreateTask(r.Context(), maintenance.CreateTaskParams{
		HomeID:      chi.URLParam(r, "homeID"),
		AssetID:     req.AssetID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, MapTaskToDTO(task))
}

// ListTasks handles GET /v1/homes/{homeID}/tasks with filter, order, and
// pagination query parameters.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := domain.ListTasksParams{
		HomeID:   ptr.To(chi.URLParam(r, "homeID")),
		OrderBy:  q.Get("order_by"),
		OrderDir: q.Get("order_dir"),
	}

	if v := q.Get("asset_id"); v != "" {
		params.AssetID = &v
	}
	if v := q.Get("status"); v != "" {
		status := domain.TaskStatus(v)
		params.Status = &status
	}
	if v := q.Get("priority"); v != "" {
		priority := domain.TaskPriority(v)
		params.Priority = &priority
	}
	if v := q.Get("due_before"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			response.ValidationError(w, "due_before", "must be a date in YYYY-MM-DD format")
			return
		}
		params.DueBefore = &t
	}
	if v := q.Get("due_after"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			response.ValidationError(w, "due_after", "must be a date in YYYY-MM-DD format")
			return
		}
		params.DueAfter = &t
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			response.ValidationError(w, "limit", "must be a non-negative integer")
			return
		}
		params.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			response.ValidationError(w, "offset", "must be a non-negative integer")
			return
		}
		params.Offset = offset
	}

	page, err := h.maintenance.ListTasks(r.Context(), params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]TaskDTO, 0, len(page.Tasks))
	for _, t := range page.Tasks {
		dtos = append(dtos, MapTaskToDTO(t))
	}
	response.OK(w, map[string]any{
		"tasks":       dtos,
		"total_count": page.TotalCount,
		"has_more":    page.HasMore,
	})
}

// GetTask handles GET /v1/tasks/{taskID}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.maintenance.GetTask(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapTaskToDTO(task))
}

// StartTask handles POST /v1/tasks/{taskID}/start.
func (h *Handler) StartTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.maintenance.StartTask)
}

// CompleteTask handles POST /v1/tasks/{taskID}/complete.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.maintenance.CompleteTask)
}

// ReopenTask handles POST /v1/tasks/{taskID}/reopen.
func (h *Handler) ReopenTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.maintenance.ReopenTask)
}

// CancelTask handles POST /v1/tasks/{taskID}/cancel.
func (h *Handler) CancelTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.maintenance.CancelTask)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, taskID string) (*domain.Task, error)) {
	task, err := fn(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapTaskToDTO(task))
}
