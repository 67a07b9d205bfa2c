package requestshandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/notifications"
	"intranet/internal/domain/requests"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service     *requests.Service
	Perms       middleware.PermissionStore
	Notify      *notifications.Service
	Audit       *audit.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *requests.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify, Audit: auditSvc, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	kinds := map[string]requests.Kind{
		"/permission-requests":   requests.KindPermission,
		"/vacation-requests":     requests.KindVacation,
		"/shift-change-requests": requests.KindShiftChange,
	}
	for prefix, kind := range kinds {
		kind := kind
		r.Route(prefix, func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermRequestsRead, h.Perms)).Get("/", h.handleList(kind))
			r.With(middleware.RequirePermission(auth.PermRequestsWrite, h.Perms)).Post("/", h.handleCreate(kind))
			r.With(middleware.RequirePermission(auth.PermRequestsRead, h.Perms)).Get("/{requestID}", h.handleGet(kind))
			r.With(middleware.RequirePermission(auth.PermRequestsModify, h.Perms)).Patch("/{requestID}", h.handleModify(kind))
			r.With(middleware.RequirePermission(auth.PermRequestsReview, h.Perms)).Post("/{requestID}/approve", h.handleApprove(kind))
			r.With(middleware.RequirePermission(auth.PermRequestsReview, h.Perms)).Post("/{requestID}/reject", h.handleReject(kind))
			r.With(middleware.RequirePermission(auth.PermRequestsRead, h.Perms)).Post("/{requestID}/hide", h.handleHide(kind))
			r.With(middleware.RequirePermission(auth.PermRequestsWrite, h.Perms)).Delete("/{requestID}", h.handleDelete(kind))
		})
	}

	r.With(middleware.RequirePermission(auth.PermCalendarRead, h.Perms)).Get("/calendar", h.handleCalendar)
	r.With(middleware.RequirePermission(auth.PermCalendarRead, h.Perms)).Get("/calendar/export", h.handleCalendarExport)
}

func actorFrom(user auth.UserContext) requests.Actor {
	return requests.Actor{Username: user.Username, Role: user.Role}
}

var errInvalidDate = errors.New("invalid date")

// failDomain translates domain errors into API failures. Unknown errors
// fall through to a 500.
func failDomain(w http.ResponseWriter, err error, requestID string) {
	var confirm *requests.ConfirmationError
	if errors.As(err, &confirm) {
		details := map[string]any{"confirmation": string(confirm.Confirmation)}
		if confirm.Confirmation == requests.ConfirmExcessDays {
			details["total_days"] = confirm.TotalDays
			details["cap"] = requests.VacationDayCap
		}
		if confirm.Existing != nil {
			details["existing"] = toDTO(*confirm.Existing)
		}
		api.FailWithDetails(w, http.StatusConflict, "confirmation_required", confirm.Error(), details, requestID)
		return
	}

	var replace *requests.ReplaceError
	if errors.As(err, &replace) {
		api.FailWithDetails(w, http.StatusInternalServerError, "replace_incomplete", replace.Error(), map[string]any{
			"deleted": toDTO(replace.Deleted),
		}, requestID)
		return
	}

	switch {
	case errors.Is(err, errInvalidDate):
		api.Fail(w, http.StatusBadRequest, "invalid_date", "dates must use YYYY-MM-DD format", requestID)
	case errors.Is(err, requests.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "request not found", requestID)
	case errors.Is(err, requests.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", requestID)
	case errors.Is(err, requests.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "end date must not precede start date", requestID)
	case errors.Is(err, requests.ErrSelfRequest):
		api.Fail(w, http.StatusBadRequest, "self_request", "acceptor must be a different user", requestID)
	case errors.Is(err, requests.ErrOutOfScope):
		api.Fail(w, http.StatusBadRequest, "out_of_scope", "acceptor must belong to the requester's department", requestID)
	case errors.Is(err, requests.ErrReasonRequired):
		api.Fail(w, http.StatusBadRequest, "reason_required", "a review reason is required", requestID)
	case errors.Is(err, requests.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "request is not in a reviewable state", requestID)
	case errors.Is(err, requests.ErrNotTerminal):
		api.Fail(w, http.StatusConflict, "not_terminal", "only approved or rejected requests can be hidden", requestID)
	case errors.Is(err, requests.ErrNotDeletable):
		api.Fail(w, http.StatusConflict, "not_deletable", "only rejected requests can be deleted", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", requestID)
	}
}

func (h *Handler) handleList(kind requests.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}

		records, err := h.Service.List(r.Context(), actorFrom(user), kind)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, toDTOs(records, user.Username), middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleGet(kind requests.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}

		req, err := h.Service.Get(r.Context(), kind, chi.URLParam(r, "requestID"))
		if err != nil {
			failDomain(w, err, middleware.GetRequestID(r.Context()))
			return
		}
		if !h.canView(r, user, req) {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, toDTO(req), middleware.GetRequestID(r.Context()))
	}
}

// canView mirrors list scoping for single-record reads: owners and named
// acceptors always, managers for their own department.
func (h *Handler) canView(r *http.Request, user auth.UserContext, req requests.Request) bool {
	if req.Owner() == user.Username {
		return true
	}
	if req.ShiftChange != nil && req.ShiftChange.Acceptor == user.Username {
		return true
	}
	if user.Role != auth.RoleManager {
		return false
	}
	ownerDept, err := h.Service.Dir.Department(r.Context(), req.Owner())
	if err != nil {
		slog.Warn("request owner department lookup failed", "err", err)
		return false
	}
	return ownerDept != "" && ownerDept == user.Department
}

type createPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	Period    string `json:"period"`
	Acceptor  string `json:"acceptor"`
	Date      string `json:"date"`

	ConfirmExcessDays bool `json:"confirm_excess_days"`
	ConfirmReplace    bool `json:"confirm_replace"`
}

func (h *Handler) handleCreate(kind requests.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}

		idemKey := r.Header.Get("Idempotency-Key")
		body, payload, ok := h.decodeCreate(w, r)
		if !ok {
			return
		}

		if validateCreate(kind, payload).Reject(w, middleware.GetRequestID(r.Context())) {
			return
		}

		endpoint := "create:" + string(kind)
		requestHash := middleware.RequestHash(body)
		if idemKey != "" {
			stored, replay, err := h.Idempotency.Check(r.Context(), user.Username, endpoint, idemKey, requestHash)
			if errors.Is(err, middleware.ErrIdempotencyConflict) {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", middleware.GetRequestID(r.Context()))
				return
			}
			if err != nil {
				slog.Warn("idempotency check failed", "err", err)
			}
			if replay {
				var dto requestDTO
				if err := json.Unmarshal(stored, &dto); err == nil {
					api.Created(w, dto, middleware.GetRequestID(r.Context()))
					return
				}
			}
		}

		created, err := h.create(r, user, kind, payload)
		if err != nil {
			failDomain(w, err, middleware.GetRequestID(r.Context()))
			return
		}

		dto := toDTO(created)
		if idemKey != "" {
			if stored, err := json.Marshal(dto); err == nil {
				if err := h.Idempotency.Save(r.Context(), user.Username, endpoint, idemKey, requestHash, stored); err != nil {
					slog.Warn("idempotency save failed", "err", err)
				}
			}
		}

		h.record(r, user, "requests.create", created, map[string]any{"kind": created.Kind})
		h.notifyCreated(r, user, created)
		if kind == requests.KindVacation && payload.ConfirmReplace && h.Notify != nil {
			h.Notify.Notify(r.Context(), created.Owner(), notifications.TypeRequestReplaced,
				"Vacation replaced", "Your overlapping vacation request was replaced by the new dates.")
		}
		api.Created(w, dto, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) decodeCreate(w http.ResponseWriter, r *http.Request) ([]byte, createPayload, bool) {
	var payload createPayload
	body, err := readBody(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return nil, payload, false
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return nil, payload, false
	}
	return body, payload, true
}

func validateCreate(kind requests.Kind, payload createPayload) *shared.Validator {
	v := shared.NewValidator()
	switch kind {
	case requests.KindPermission:
		start, _ := v.Date("start_date", payload.StartDate)
		end, _ := v.Date("end_date", payload.EndDate)
		v.DateOrder("start_date", start, "end_date", end)
		v.Required("reason", payload.Reason, "is required")
	case requests.KindVacation:
		start, _ := v.Date("start_date", payload.StartDate)
		end, _ := v.Date("end_date", payload.EndDate)
		v.DateOrder("start_date", start, "end_date", end)
	default:
		v.Required("acceptor", payload.Acceptor, "is required")
		v.Date("date", payload.Date)
	}
	return v
}

func (h *Handler) create(r *http.Request, user auth.UserContext, kind requests.Kind, payload createPayload) (requests.Request, error) {
	actor := actorFrom(user)
	switch kind {
	case requests.KindPermission:
		start, end, err := parseRange(payload.StartDate, payload.EndDate)
		if err != nil {
			return requests.Request{}, err
		}
		return h.Service.CreatePermission(r.Context(), actor, requests.PermissionPayload{
			StartDate: start,
			EndDate:   end,
			Reason:    payload.Reason,
		})
	case requests.KindVacation:
		start, end, err := parseRange(payload.StartDate, payload.EndDate)
		if err != nil {
			return requests.Request{}, err
		}
		decide := requests.Decisions{
			AcceptExcessDays: payload.ConfirmExcessDays,
			AcceptReplace:    payload.ConfirmReplace,
		}
		return h.Service.CreateVacation(r.Context(), actor, requests.VacationPayload{
			StartDate: start,
			EndDate:   end,
			Period:    payload.Period,
		}, decide)
	default:
		date, err := parseDate(payload.Date)
		if err != nil {
			return requests.Request{}, err
		}
		return h.Service.CreateShiftChange(r.Context(), actor, requests.ShiftChangePayload{
			Acceptor: payload.Acceptor,
			Date:     date,
			Reason:   payload.Reason,
		})
	}
}

func (h *Handler) handleApprove(kind requests.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}

		requestID := chi.URLParam(r, "requestID")
		updated, err := h.Service.Approve(r.Context(), actorFrom(user), kind, requestID)
		if err != nil {
			failDomain(w, err, middleware.GetRequestID(r.Context()))
			return
		}

		h.record(r, user, "requests.approve", updated, nil)
		h.notifyReviewed(r, user, updated, notifications.TypeRequestApproved, "Request approved", "Your request was approved.")
		api.Success(w, toDTO(updated), middleware.GetRequestID(r.Context()))
	}
}

type rejectPayload struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleReject(kind requests.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}

		var payload rejectPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}

		requestID := chi.URLParam(r, "requestID")
		updated, err := h.Service.Reject(r.Context(), actorFrom(user), kind, requestID, payload.Reason)
		if err != nil {
			failDomain(w, err, middleware.GetRequestID(r.Context()))
			return
		}

		h.record(r, user, "requests.reject", updated, map[string]any{"reason": payload.Reason})
		h.notifyReviewed(r, user, updated, notifications.TypeRequestRejected, "Request rejected", "Your request was rejected: "+payload.Reason)
		api.Success(w, toDTO(updated), middleware.GetRequestID(r.Context()))
	}
}

type modifyPayload struct {
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Date         *string `json:"date"`
	Reason       *string `json:"reason"`
	Period       *string `json:"period"`
	Acceptor     *string `json:"acceptor"`
	ReviewReason string  `json:"review_reason"`
}

func (h *Handler) handleModify(kind requests.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}

		var payload modifyPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}

		mod, err := payload.toModification()
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}

		requestID := chi.URLParam(r, "requestID")
		updated, err := h.Service.Modify(r.Context(), actorFrom(user), kind, requestID, mod, payload.ReviewReason)
		if err != nil {
			failDomain(w, err, middleware.GetRequestID(r.Context()))
			return
		}

		h.record(r, user, "requests.modify", updated, map[string]any{"review_reason": payload.ReviewReason})
		h.notifyReviewed(r, user, updated, notifications.TypeRequestModified, "Request modified", "Your request was modified by a manager: "+payload.ReviewReason)
		api.Success(w, toDTO(updated), middleware.GetRequestID(r.Context()))
	}
}

func (p modifyPayload) toModification() (requests.Modification, error) {
	var mod requests.Modification
	if p.StartDate != nil {
		parsed, err := parseDate(*p.StartDate)
		if err != nil {
			return mod, err
		}
		mod.StartDate = &parsed
	}
	if p.EndDate != nil {
		parsed, err := parseDate(*p.EndDate)
		if err != nil {
			return mod, err
		}
		mod.EndDate = &parsed
	}
	if p.Date != nil {
		parsed, err := parseDate(*p.Date)
		if err != nil {
			return mod, err
		}
		mod.Date = &parsed
	}
	mod.Reason = p.Reason
	mod.Period = p.Period
	mod.Acceptor = p.Acceptor
	return mod, nil
}

func (h *Handler) handleHide(kind requests.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}

		requestID := chi.URLParam(r, "requestID")
		updated, err := h.Service.Hide(r.Context(), actorFrom(user), kind, requestID)
		if err != nil {
			failDomain(w, err, middleware.GetRequestID(r.Context()))
			return
		}

		h.record(r, user, "requests.hide", updated, nil)
		api.Success(w, toDTO(updated), middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleDelete(kind requests.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}

		requestID := chi.URLParam(r, "requestID")
		deleted, err := h.Service.Delete(r.Context(), actorFrom(user), kind, requestID)
		if err != nil {
			failDomain(w, err, middleware.GetRequestID(r.Context()))
			return
		}

		h.record(r, user, "requests.delete", deleted, nil)
		api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action string, req requests.Request, extra map[string]any) {
	if h.Audit == nil {
		return
	}
	after := map[string]any{"status": req.Status, "kind": req.Kind}
	for key, value := range extra {
		after[key] = value
	}
	if err := h.Audit.Record(r.Context(), user.Username, action, "request", req.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) notifyCreated(r *http.Request, user auth.UserContext, req requests.Request) {
	if h.Notify == nil {
		return
	}
	if req.ShiftChange != nil {
		h.Notify.Notify(r.Context(), req.ShiftChange.Acceptor, notifications.TypeShiftChangeAsked,
			"Shift change requested", user.Username+" asked you to take a shift on "+req.ShiftChange.Date.Format(dateLayout)+".")
		return
	}
	h.Notify.Notify(r.Context(), req.Owner(), notifications.TypeRequestSubmitted,
		"Request submitted", "Your "+string(req.Kind)+" request was submitted.")
}

func (h *Handler) notifyReviewed(r *http.Request, user auth.UserContext, req requests.Request, ntype, title, body string) {
	if h.Notify == nil || req.Owner() == user.Username {
		return
	}
	h.Notify.Notify(r.Context(), req.Owner(), ntype, title, body)
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseDate(raw string) (time.Time, error) {
	parsed, err := shared.ParseDate(raw)
	if err != nil || parsed.IsZero() {
		return time.Time{}, errInvalidDate
	}
	return parsed, nil
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
