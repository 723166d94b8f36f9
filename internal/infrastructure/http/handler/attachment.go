package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/upkeephq/upkeep/internal/infrastructure/http/response"
)

// UploadAttachment handles POST /v1/homes/{homeID}/assets/{assetID}/attachments.
// The blob arrives as the raw request body; the attachment name comes from the
// X-Attachment-Name header and the type from Content-Type.
func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	name := r.Header.Get("X-Attachment-Name")
	if name == "" {
		response.ValidationError(w, "X-Attachment-Name", "required header missing")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	att, err := h.inventory.UploadAttachment(r.Context(),
		chi.URLParam(r, "homeID"), chi.URLParam(r, "assetID"),
		name, contentType, r.Body)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, MapAttachmentToDTO(att))
}

// ListAttachments handles GET /v1/homes/{homeID}/assets/{assetID}/attachments.
func (h *Handler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	attachments, err := h.inventory.ListAttachments(r.Context(),
		chi.URLParam(r, "homeID"), chi.URLParam(r, "assetID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]AttachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		dtos = append(dtos, MapAttachmentToDTO(a))
	}
	response.OK(w, map[string]any{"attachments": dtos})
}

// DownloadAttachment handles GET /v1/homes/{homeID}/assets/{assetID}/attachments/{name}.
// Streams the blob back with its stored content type.
func (h *Handler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	reader, att, err := h.inventory.OpenAttachment(r.Context(),
		chi.URLParam(r, "homeID"), chi.URLParam(r, "assetID"),
		chi.URLParam(r, "name"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", att.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(att.Size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, reader); err != nil {
		slog.ErrorContext(r.Context(), "Failed to stream attachment",
			"asset_id", att.AssetID,
			"name", att.Name,
			"error", err)
	}
}

// DeleteAttachment handles DELETE /v1/homes/{homeID}/assets/{assetID}/attachments/{name}.
func (h *Handler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	err := h.inventory.DeleteAttachment(r.Context(),
		chi.URLParam(r, "homeID"), chi.URLParam(r, "assetID"),
		chi.URLParam(r, "name"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
