package corehandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/core"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
)

type Handler struct {
	Service *core.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *core.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/acceptor-choices", h.handleAcceptorChoices)
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/{username}", h.handleGet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var (
		users []core.User
		err   error
	)
	if department := r.URL.Query().Get("department"); department != "" {
		users, err = h.Service.ListByDepartment(r.Context(), department)
	} else {
		users, err = h.Service.List(r.Context())
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.GetByUsername(r.Context(), user.Username)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "lookup_failed", "failed to load user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "lookup_failed", "failed to load user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

// handleAcceptorChoices lists the caller's department colleagues, the only
// valid acceptors for a shift change request.
func (h *Handler) handleAcceptorChoices(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	choices, err := h.Service.AcceptorChoices(r.Context(), user.Username)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "lookup_failed", "failed to load colleagues", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, choices, middleware.GetRequestID(r.Context()))
}
