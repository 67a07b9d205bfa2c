package requests

import (
	"strings"
	"time"

	"intranet/internal/domain/auth"
)

// Actor is the authenticated user attempting a transition.
type Actor struct {
	Username string
	Role     string
}

// canReview reports whether actor may approve or reject req: managers for
// permissions and vacations, the named acceptor for shift changes.
func canReview(req Request, actor Actor) bool {
	if req.Kind == KindShiftChange {
		return req.ShiftChange != nil && actor.Username == req.ShiftChange.Acceptor
	}
	return actor.Role == auth.RoleManager
}

// Approve moves a pending request to approved. Pure: the stored record is
// only touched once the caller persists the returned copy.
func Approve(req Request, actor Actor) (Request, error) {
	if !canReview(req, actor) {
		return req, ErrForbidden
	}
	if req.Status != StatusPending {
		return req, ErrInvalidTransition
	}
	out := req.clone()
	out.Status = StatusApproved
	out.ReviewedBy = actor.Username
	return out, nil
}

// Reject moves a pending request to rejected. A non-empty reason is
// mandatory.
func Reject(req Request, actor Actor, reason string) (Request, error) {
	if !canReview(req, actor) {
		return req, ErrForbidden
	}
	if req.Status != StatusPending {
		return req, ErrInvalidTransition
	}
	if strings.TrimSpace(reason) == "" {
		return req, ErrReasonRequired
	}
	out := req.clone()
	out.Status = StatusRejected
	out.ReviewReason = reason
	out.ReviewedBy = actor.Username
	return out, nil
}

// Modification carries the reviewer's field updates. Nil fields are left
// untouched; which fields apply depends on the request kind.
type Modification struct {
	StartDate *time.Time
	EndDate   *time.Time
	Date      *time.Time
	Reason    *string
	Period    *string
	Acceptor  *string
}

// Modify rewrites a pending or approved request and marks it modified.
// Manager only, for all kinds. A modified record is resolved and does not
// re-enter the approval queue.
func Modify(req Request, actor Actor, mod Modification, reason string) (Request, error) {
	if actor.Role != auth.RoleManager {
		return req, ErrForbidden
	}
	if req.Status != StatusPending && req.Status != StatusApproved {
		return req, ErrInvalidTransition
	}
	if strings.TrimSpace(reason) == "" {
		return req, ErrReasonRequired
	}

	out := req.clone()
	switch {
	case out.Permission != nil:
		if mod.StartDate != nil {
			out.Permission.StartDate = *mod.StartDate
		}
		if mod.EndDate != nil {
			out.Permission.EndDate = *mod.EndDate
		}
		if mod.Reason != nil {
			out.Permission.Reason = *mod.Reason
		}
		if err := ValidateRange(out.Permission.StartDate, out.Permission.EndDate); err != nil {
			return req, err
		}
	case out.Vacation != nil:
		if mod.StartDate != nil {
			out.Vacation.StartDate = *mod.StartDate
		}
		if mod.EndDate != nil {
			out.Vacation.EndDate = *mod.EndDate
		}
		if mod.Period != nil {
			out.Vacation.Period = *mod.Period
		}
		if err := ValidateRange(out.Vacation.StartDate, out.Vacation.EndDate); err != nil {
			return req, err
		}
	case out.ShiftChange != nil:
		if mod.Date != nil {
			out.ShiftChange.Date = *mod.Date
		}
		if mod.Reason != nil {
			out.ShiftChange.Reason = *mod.Reason
		}
		if mod.Acceptor != nil {
			out.ShiftChange.Acceptor = *mod.Acceptor
		}
		if err := ValidateSelfReference(out.ShiftChange.Requester, out.ShiftChange.Acceptor); err != nil {
			return req, err
		}
	}

	out.Status = StatusModified
	out.ReviewReason = reason
	out.ReviewedBy = actor.Username
	return out, nil
}
