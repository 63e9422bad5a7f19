// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/olegiv/sitecms-go/internal/media"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/validation"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// multipartOverhead allows for form fields and boundaries on top of the file.
const multipartOverhead = 1 << 20

const (
	maxAltLength     = 255
	maxCaptionLength = 1000
)

// UpdateMediaRequest is the body of PUT /api/media/{id}.
type UpdateMediaRequest struct {
	Alt     *string `json:"alt" validate:"omitnil,max=255"`
	Caption *string `json:"caption" validate:"omitnil,max=1000"`
	Folder  *string `json:"folder" validate:"omitnil,media_folder"`
}

// UploadMedia handles POST /api/media. The body is multipart/form-data with a
// "file" part and optional "folder", "alt" and "caption" fields.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.media.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.WriteServiceError(w, r, media.ErrTooLarge)
			return
		}
		WriteBadRequest(w, "Failed to parse multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteValidationError(w, fieldError("file", "No file uploaded"))
		return
	}
	defer func() { _ = file.Close() }()

	folder := strings.TrimSpace(r.FormValue("folder"))
	alt := strings.TrimSpace(r.FormValue("alt"))
	caption := strings.TrimSpace(r.FormValue("caption"))

	var errs validation.Errors
	if folder != "" && !model.IsMediaFolder(folder) {
		errs = append(errs, validation.FieldError{Field: "folder", Message: "Must be one of: " + strings.Join(model.MediaFolders, ", ")})
	}
	if len(alt) > maxAltLength {
		errs = append(errs, validation.FieldError{Field: "alt", Message: "Must be at most 255 characters long"})
	}
	if len(caption) > maxCaptionLength {
		errs = append(errs, validation.FieldError{Field: "caption", Message: "Must be at most 1000 characters long"})
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	stored, err := h.media.Save(file, header.Filename, folder)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	m, err := h.queries.CreateMedia(r.Context(), store.CreateMediaParams{
		Filename:     stored.Filename,
		OriginalName: stored.OriginalName,
		MimeType:     stored.MimeType,
		Size:         stored.Size,
		Folder:       stored.Folder,
		Path:         stored.Path,
		URL:          stored.URL,
		ThumbnailURL: stored.ThumbnailURL,
		Width:        int64(stored.Width),
		Height:       int64(stored.Height),
		Alt:          alt,
		Caption:      caption,
		UploadedBy:   principalID(r),
		CreatedAt:    h.now(),
	})
	if err != nil {
		if derr := h.media.Delete(stored.Path); derr != nil {
			h.logger.Warn("removing orphaned upload failed", "path", stored.Path, "error", derr)
		}
		h.WriteServiceError(w, r, err)
		return
	}

	h.metrics.MediaUploaded(m.Folder)
	h.auditLog(r, model.EventCategoryMedia).Info("media uploaded",
		"media_id", m.ID, "filename", m.Filename, "mime_type", m.MimeType, "size", m.Size)
	WriteCreated(w, m, "File uploaded")
}

// ListMedia handles GET /api/media. ?folder= filters by folder and ?type=
// by MIME prefix ("image", "video", "application/pdf").
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "desc")

	params := store.ListMediaParams{
		ListParams: lq.Params(),
		Folder:     r.URL.Query().Get("folder"),
		MimePrefix: r.URL.Query().Get("type"),
	}

	items, total, err := h.queries.ListMedia(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, items, lq.Paginate(total))
}

// GetMedia handles GET /api/media/{id}.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	_, m, ok := requireEntityByID(h, w, r, "media", func(id int64) (store.Medium, error) {
		return h.queries.GetMediaByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, m)
}

// UpdateMedia handles PUT /api/media/{id}. Only metadata changes; the file
// stays where it was written.
func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	id, existing, ok := requireEntityByID(h, w, r, "media", func(id int64) (store.Medium, error) {
		return h.queries.GetMediaByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateMediaRequest
	if !h.bind(w, r, &req) {
		return
	}

	params := store.UpdateMediaMetaParams{
		ID:        id,
		Alt:       existing.Alt,
		Caption:   existing.Caption,
		Folder:    existing.Folder,
		UpdatedAt: h.now(),
	}
	setIf(&params.Alt, req.Alt)
	setIf(&params.Caption, req.Caption)
	setIf(&params.Folder, req.Folder)

	m, err := h.queries.UpdateMediaMeta(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryMedia).Info("media updated", "media_id", id)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: m, Message: "Media updated"})
}

// DeleteMedia handles DELETE /api/media/{id}. The record goes first; a file
// that cannot be removed afterwards is logged and left behind.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, m, ok := requireEntityByID(h, w, r, "media", func(id int64) (store.Medium, error) {
		return h.queries.GetMediaByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if _, err := h.queries.DeleteMedia(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	if err := h.media.Delete(m.Path); err != nil {
		h.logger.Warn("deleting media file failed",
			"category", model.EventCategoryMedia, "media_id", id, "path", m.Path, "error", err)
	}

	h.auditLog(r, model.EventCategoryMedia).Info("media deleted", "media_id", id, "filename", m.Filename)
	WriteMessage(w, "Media deleted")
}
