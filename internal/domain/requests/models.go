package requests

import "time"

// Request is the common envelope shared by the three request kinds.
// Exactly one of the payload pointers is set, matching Kind.
type Request struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	Status       string    `json:"status"`
	ReviewedBy   string    `json:"reviewed_by,omitempty"`
	ReviewReason string    `json:"review_reason,omitempty"`
	HiddenBy     []string  `json:"hidden_by"`
	CreatedAt    time.Time `json:"created_at"`

	Permission  *PermissionPayload  `json:"permission,omitempty"`
	Vacation    *VacationPayload    `json:"vacation,omitempty"`
	ShiftChange *ShiftChangePayload `json:"shift_change,omitempty"`
}

type PermissionPayload struct {
	User      string    `json:"user"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

type VacationPayload struct {
	User      string    `json:"user"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Period    string    `json:"period"`
}

type ShiftChangePayload struct {
	Requester string    `json:"requester"`
	Acceptor  string    `json:"acceptor"`
	Date      time.Time `json:"date"`
	Reason    string    `json:"reason"`
}

// Owner returns the user the request belongs to: the requesting user for
// permissions and vacations, the requester for shift changes.
func (r Request) Owner() string {
	switch {
	case r.Permission != nil:
		return r.Permission.User
	case r.Vacation != nil:
		return r.Vacation.User
	case r.ShiftChange != nil:
		return r.ShiftChange.Requester
	}
	return ""
}

// Span returns the inclusive date range the request occupies. Shift changes
// cover a single day.
func (r Request) Span() (time.Time, time.Time) {
	switch {
	case r.Permission != nil:
		return r.Permission.StartDate, r.Permission.EndDate
	case r.Vacation != nil:
		return r.Vacation.StartDate, r.Vacation.EndDate
	case r.ShiftChange != nil:
		return r.ShiftChange.Date, r.ShiftChange.Date
	}
	return time.Time{}, time.Time{}
}

// Active reports whether the request still occupies its dates.
func (r Request) Active() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// Terminal reports whether the request reached a reviewable end state and is
// eligible for hiding.
func (r Request) Terminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// clone deep-copies the request so callers can derive an updated record
// without mutating the original payload.
func (r Request) clone() Request {
	out := r
	if r.Permission != nil {
		payload := *r.Permission
		out.Permission = &payload
	}
	if r.Vacation != nil {
		payload := *r.Vacation
		out.Vacation = &payload
	}
	if r.ShiftChange != nil {
		payload := *r.ShiftChange
		out.ShiftChange = &payload
	}
	if r.HiddenBy != nil {
		hidden := make([]string, len(r.HiddenBy))
		copy(hidden, r.HiddenBy)
		out.HiddenBy = hidden
	}
	return out
}
