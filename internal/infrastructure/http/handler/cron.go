package handler

import (
	"net/http"

	"github.com/upkeephq/upkeep/internal/infrastructure/http/response"
)

// TriggerMaterialize handles POST /internal/cron/materialize. It generates
// tasks for every active schedule whose next due date has arrived.
func (h *Handler) TriggerMaterialize(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeps.MaterializeDue(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, result)
}

// TriggerOverdue handles POST /internal/cron/overdue. It flips pending tasks
// whose due date has passed to overdue.
func (h *Handler) TriggerOverdue(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeps.SweepOverdue(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, result)
}
