package api

import (
	"context"
	"net/http"

	"github.com/alexivanou/cityshare-api/internal/model"
)

// ToggleLike handles POST /api/cities/{id}/like
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request, user *model.User) {
	h.toggleCity(w, r, user, h.service.ToggleLike)
}

// ToggleFavorite handles POST /api/cities/{id}/favorite
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request, user *model.User) {
	h.toggleCity(w, r, user, h.service.ToggleFavorite)
}

func (h *Handler) toggleCity(w http.ResponseWriter, r *http.Request, user *model.User,
	toggle func(ctx context.Context, userID, cityID int64) (model.ToggleResult, error)) {
	cityID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := toggle(r.Context(), user.ID, cityID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// ToggleFollow handles POST /api/users/{id}/follow
func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request, user *model.User) {
	targetID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.service.ToggleFollow(r.Context(), user.ID, targetID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// ListComments handles GET /api/cities/{id}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	cityID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	comments, err := h.service.ListComments(r.Context(), cityID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// AddComment handles POST /api/cities/{id}/comments
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request, user *model.User) {
	cityID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req model.CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.service.AddComment(r.Context(), user.ID, cityID, req.Content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

// DeleteOwnComment handles DELETE /api/comments/{id}
func (h *Handler) DeleteOwnComment(w http.ResponseWriter, r *http.Request, user *model.User) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteOwnComment(r.Context(), user.ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNotifications handles GET /api/notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request, user *model.User) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.service.ListNotifications(r.Context(), user.ID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// MarkNotificationRead handles POST /api/notifications/{id}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request, user *model.User) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.MarkNotificationRead(r.Context(), user.ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request, user *model.User) {
	n, err := h.service.MarkAllNotificationsRead(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"updated": n})
}
