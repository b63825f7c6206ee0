package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"telegram-admin/internal/models"
	"telegram-admin/internal/services"
	"telegram-admin/internal/utils"
)

type contextKey string

const userContextKey contextKey = "user"

const sessionMaxAge = int(30 * 24 * time.Hour / time.Second)

// UserFromContext returns the authenticated user placed there by
// RequireUser. Handlers behind the middleware can rely on it being set.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

func (h *HTTPHandler) sessionUser(r *http.Request) (*models.User, bool) {
	cookie, err := r.Cookie(services.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return h.sessions.Resolve(cookie.Value)
}

// RequireUser rejects unauthenticated calls before any side effect.
func (h *HTTPHandler) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.sessionUser(r)
		if !ok {
			models.RespondWithError(w, &models.AuthError{})
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// @Summary Sign in
// @Description Upsert the user by external identity and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Identity details"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}
	if req.OpenID == "" {
		models.RespondWithError(w, &models.ValidationError{Field: "openId", Message: "required"})
		return
	}

	upsert := models.UserUpsert{OpenID: req.OpenID}
	if req.Name != "" {
		upsert.Name = &req.Name
	}
	if req.Email != "" {
		upsert.Email = &req.Email
	}
	if req.LoginMethod != "" {
		upsert.LoginMethod = &req.LoginMethod
	}

	if err := h.users.Upsert(upsert); err != nil {
		utils.LogError("Failed to upsert user on login: %v", err)
		models.RespondWithError(w, err)
		return
	}

	user, err := h.users.GetByOpenID(req.OpenID)
	if err != nil {
		utils.LogError("Failed to load user on login: %v", err)
		models.RespondWithError(w, err)
		return
	}
	if user == nil {
		models.RespondWithError(w, &models.UnavailableError{Op: "sign in"})
		return
	}

	token := h.sessions.Create(user)
	http.SetCookie(w, h.sessions.NewCookie(token, sessionMaxAge))
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Signed in", user))
}

// @Summary Current user
// @Description Returns the session's user, or null when not signed in
// @Tags auth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /auth/me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := h.sessionUser(r)
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", user))
}

// @Summary Sign out
// @Description Destroys the session and clears the cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(services.SessionCookieName); err == nil && cookie.Value != "" {
		h.sessions.Destroy(cookie.Value)
	}
	// Cleared with the same scoping options it was set with, otherwise
	// the browser keeps the cookie.
	http.SetCookie(w, h.sessions.ClearCookie())
	models.RespondWithJSON(w, http.StatusOK,
		models.NewSuccessResponse("Signed out", map[string]bool{"success": true}))
}
