package api

import (
	"net/http"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/model"
)

// ListUsers handles GET /api/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// ToggleAdmin handles POST /api/admin/users/{id}/toggle-admin
func (h *Handler) ToggleAdmin(w http.ResponseWriter, r *http.Request, actor *model.User) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req model.ToggleAdminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.IsAdmin == nil {
		h.writeError(w, r, apperror.ValidationFailed("isAdmin", "isAdmin is required"))
		return
	}
	if err := h.service.ToggleAdmin(r.Context(), actor.ID, id, *req.IsAdmin); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "isAdmin": *req.IsAdmin})
}

// ToggleContentCreator handles POST /api/admin/users/{id}/toggle-content-creator
func (h *Handler) ToggleContentCreator(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req model.ToggleContentCreatorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.IsContentCreator == nil {
		h.writeError(w, r, apperror.ValidationFailed("isContentCreator", "isContentCreator is required"))
		return
	}
	if err := h.service.ToggleContentCreator(r.Context(), id, *req.IsContentCreator); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "isContentCreator": *req.IsContentCreator})
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, actor *model.User) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteUser(r.Context(), actor.ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAPIKeys handles GET /api/admin/api-keys
func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.service.ListAPIKeys(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"apiKeys": keys})
}

// CreateAPIKey handles POST /api/admin/api-keys. The plaintext key is only in this response.
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAPIKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.service.CreateAPIKey(r.Context(), req.UserID, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// ToggleAPIKey handles POST /api/admin/api-keys/{id}/toggle
func (h *Handler) ToggleAPIKey(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req model.ToggleAPIKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.IsActive == nil {
		h.writeError(w, r, apperror.ValidationFailed("isActive", "isActive is required"))
		return
	}
	if err := h.service.ToggleAPIKey(r.Context(), id, *req.IsActive); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "isActive": *req.IsActive})
}

// DeleteAPIKey handles DELETE /api/admin/api-keys/{id}
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteAPIKey(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAllComments handles GET /api/admin/comments
func (h *Handler) ListAllComments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	comments, err := h.service.ListAllComments(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// DeleteComment handles DELETE /api/admin/comments/{id}
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteComment(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetModeration handles GET /api/admin/moderation
func (h *Handler) GetModeration(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetModerationSettings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

// UpdateModeration handles PUT /api/admin/moderation
func (h *Handler) UpdateModeration(w http.ResponseWriter, r *http.Request) {
	var req model.ModerationSettings
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	saved, err := h.service.UpdateModerationSettings(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

// FixPrimaryImages handles POST /api/admin/maintenance/fix-primary-images
func (h *Handler) FixPrimaryImages(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.FixDuplicatePrimaryImages(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}
