package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upkeephq/upkeep/internal/application/inventory"
	"github.com/upkeephq/upkeep/internal/application/maintenance"
	"github.com/upkeephq/upkeep/internal/application/sweep"
)

// Handler adapts HTTP requests to application service calls.
type Handler struct {
	inventory   *inventory.Service
	maintenance *maintenance.Service
	sweeps      *sweep.Service
}

// NewHandler creates a new HTTP API handler.
func NewHandler(inventorySvc *inventory.Service, maintenanceSvc *maintenance.Service, sweepSvc *sweep.Service) *Handler {
	return &Handler{
		inventory:   inventorySvc,
		maintenance: maintenanceSvc,
		sweeps:      sweepSvc,
	}
}

// Routes returns the API router. Callers mount it behind authentication.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/v1", func(r chi.Router) {
		r.Route("/homes", func(r chi.Router) {
			r.Post("/", h.CreateHome)
			r.Get("/", h.ListHomes)

			r.Route("/{homeID}", func(r chi.Router) {
				r.Get("/", h.GetHome)
				r.Patch("/", h.UpdateHome)
				r.Delete("/", h.DeleteHome)

				r.Route("/assets", func(r chi.Router) {
					r.Post("/", h.CreateAsset)
					r.Get("/", h.ListAssets)

					r.Route("/{assetID}", func(r chi.Router) {
						r.Get("/", h.GetAsset)
						r.Patch("/", h.UpdateAsset)
						r.Delete("/", h.DeleteAsset)

						r.Get("/schedules", h.ListSchedules)

						r.Route("/attachments", func(r chi.Router) {
							r.Post("/", h.UploadAttachment)
							r.Get("/", h.ListAttachments)
							r.Get("/{name}", h.DownloadAttachment)
							r.Delete("/{name}", h.DeleteAttachment)
						})
					})
				})

				r.Post("/packs/{packID}/apply", h.ApplyPack)

				r.Route("/tasks", func(r chi.Router) {
					r.Post("/", h.CreateTask)
					r.Get("/", h.ListTasks)
				})
			})
		})

		r.Route("/templates", func(r chi.Router) {
			r.Post("/", h.CreateTemplate)
			r.Get("/", h.ListTemplates)
			r.Get("/{templateID}", h.GetTemplate)
		})

		r.Route("/packs", func(r chi.Router) {
			r.Get("/", h.ListPacks)
		})

		r.Delete("/schedules/{scheduleID}", h.DeactivateSchedule)

		r.Route("/tasks/{taskID}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Post("/start", h.StartTask)
			r.Post("/complete", h.CompleteTask)
			r.Post("/reopen", h.ReopenTask)
			r.Post("/cancel", h.CancelTask)
		})
	})

	return r
}

// CronRoutes returns the sweep trigger router. Callers mount it behind the
// cron secret, not the interactive API key.
func (h *Handler) CronRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/materialize", h.TriggerMaterialize)
	r.Post("/overdue", h.TriggerOverdue)
	return r
}
