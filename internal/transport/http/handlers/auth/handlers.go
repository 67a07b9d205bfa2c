package authhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service  *auth.Service
	Audit    *audit.Service
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(service *auth.Service, auditSvc *audit.Service, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Secret: secret, TokenTTL: tokenTTL}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "username and password are required", middleware.GetRequestID(r.Context()))
		return
	}

	creds, err := h.Service.FindByUsername(r.Context(), payload.Username)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(creds.Password, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		Username:   creds.Username,
		Role:       creds.Role,
		Department: creds.Department,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateLastLogin(r.Context(), creds.Username); err != nil {
		slog.Warn("last login update failed", "err", err, "user", creds.Username)
	}
	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), creds.Username, "auth.login", "user", creds.Username, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
			slog.Warn("audit record failed", "action", "auth.login", "err", err)
		}
	}

	api.Success(w, map[string]any{
		"token":      token,
		"username":   creds.Username,
		"role":       creds.Role,
		"department": creds.Department,
		"expires_in": int(h.TokenTTL.Seconds()),
	}, middleware.GetRequestID(r.Context()))
}

// handleLogout exists so clients have a uniform endpoint to call; tokens are
// stateless and expire on their own.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if ok && h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.Username, "auth.logout", "user", user.Username, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
			slog.Warn("audit record failed", "action", "auth.logout", "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{
		"username":   user.Username,
		"role":       user.Role,
		"department": user.Department,
	}, middleware.GetRequestID(r.Context()))
}
