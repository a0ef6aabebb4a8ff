package api

import (
	"net/http"

	"github.com/alexivanou/cityshare-api/internal/model"
)

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, resp.Token, h.service.SessionTTL())
	h.writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, resp.Token, h.service.SessionTTL())
	h.writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, user *model.User) {
	unread, err := h.service.UnreadNotificationCount(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"user": user, "unreadNotifications": unread})
}

// CookieConsent handles POST /api/auth/cookie-consent
func (h *Handler) CookieConsent(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req model.CookieConsentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.service.UpdateCookieConsent(r.Context(), user.ID, req.Consent)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"user": updated})
}
