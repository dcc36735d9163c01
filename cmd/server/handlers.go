package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/auth"
	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
	"github.com/tech-sports-pimba/pimba-mvp/core/sessiontransport"
	"github.com/tech-sports-pimba/pimba-mvp/middleware"
)

type handlers struct {
	flow      *auth.Flow
	transport *sessiontransport.Cookie
	devMode   bool
	log       *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type devLoginRequest struct {
	Role string `json:"role"`
}

type userResponse struct {
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      session.Role `json:"role"`
	TenantID  int64        `json:"tenant_id,omitempty"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sc, ok := middleware.GetSession(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	rec, err := h.flow.Login(r.Context(), sc, req.Email, req.Password)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userView(rec))
}

func (h *handlers) devLogin(w http.ResponseWriter, r *http.Request) {
	if !h.devMode {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req devLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role := session.Role(req.Role)
	if role != session.RoleAdmin && role != session.RoleTrainer {
		writeError(w, http.StatusBadRequest, "role must be admin or trainer")
		return
	}

	sc, ok := middleware.GetSession(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	rec, err := h.flow.DevLogin(r.Context(), sc, role)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userView(rec))
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	sc, ok := middleware.GetSession(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	if err := h.flow.Logout(r.Context(), sc); err != nil {
		h.log.Error("logout failed", logger.Error(err), logger.SessionID(string(sc.ID())))
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	h.transport.Clear(w)

	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	sc, _ := middleware.GetSession(r)
	rec, ok := sc.Record()
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, userView(rec))
}

func (h *handlers) writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrAccountDisabled):
		writeError(w, http.StatusForbidden, "account disabled")
	case errors.Is(err, auth.ErrDevLoginDisabled):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrProviderUnavailable):
		writeError(w, http.StatusBadGateway, "authentication service unavailable")
	default:
		h.log.Error("login failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
	}
}

func userView(rec session.Record) userResponse {
	return userResponse{
		UserID:    rec.User.UserID,
		Name:      rec.User.Name,
		Email:     rec.User.Email,
		Role:      rec.User.Role,
		TenantID:  rec.User.TenantID,
		ExpiresAt: rec.ExpiresAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
