package requests

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange      = errors.New("end date before start date")
	ErrSelfRequest       = errors.New("shift change acceptor matches requester")
	ErrOutOfScope        = errors.New("acceptor outside requester department")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrReasonRequired    = errors.New("review reason required")
	ErrNotTerminal       = errors.New("request is not approved or rejected")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("request not found")
	ErrNotDeletable      = errors.New("only rejected requests can be deleted by their owner")
)

// Confirmation identifies a soft check awaiting an explicit actor decision.
type Confirmation string

const (
	ConfirmExcessDays Confirmation = "excess_days"
	ConfirmReplace    Confirmation = "replace_overlap"
)

// ConfirmationError is returned when a soft check was not confirmed by the
// actor. Nothing has been written when it is returned.
type ConfirmationError struct {
	Confirmation Confirmation
	TotalDays    int
	Existing     *Request
}

func (e *ConfirmationError) Error() string {
	switch e.Confirmation {
	case ConfirmExcessDays:
		return fmt.Sprintf("confirmation required: %d active vacation days exceed the cap of %d", e.TotalDays, VacationDayCap)
	case ConfirmReplace:
		return "confirmation required: an active vacation request overlaps the submitted range"
	}
	return "confirmation required"
}

// ReplaceError reports a replace sequence that deleted the overlapping
// record but failed to create its replacement. The deleted record is carried
// so the failure can be surfaced to the actor instead of silently swallowed.
type ReplaceError struct {
	Deleted Request
	Err     error
}

func (e *ReplaceError) Error() string {
	return fmt.Sprintf("vacation replace incomplete: overlapping request %s deleted but replacement not created: %v", e.Deleted.ID, e.Err)
}

func (e *ReplaceError) Unwrap() error {
	return e.Err
}
