package requests

import "context"

// Decider is the confirmation port for the soft checks raised during
// vacation creation. The HTTP layer answers from explicit flags on the
// submitted payload; tests answer with canned decisions.
type Decider interface {
	ConfirmExcessDays(totalDays int) bool
	ConfirmReplace(existing Request) bool
}

// Decisions is a Decider with fixed answers.
type Decisions struct {
	AcceptExcessDays bool
	AcceptReplace    bool
}

func (d Decisions) ConfirmExcessDays(int) bool  { return d.AcceptExcessDays }
func (d Decisions) ConfirmReplace(Request) bool { return d.AcceptReplace }

// Resolver runs the ordered vacation creation sequence: range check, day-cap
// confirmation, overlap confirmation, delete of the overlapped record, then
// creation of the candidate. Each refused step aborts with no mutation.
type Resolver struct {
	store StoreAPI
}

func NewResolver(store StoreAPI) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) CreateVacation(ctx context.Context, payload VacationPayload, decide Decider) (Request, error) {
	if err := ValidateRange(payload.StartDate, payload.EndDate); err != nil {
		return Request{}, err
	}

	active, err := r.store.ListActiveVacations(ctx, payload.User)
	if err != nil {
		return Request{}, err
	}

	newDays := DayCount(payload.StartDate, payload.EndDate)
	existingDays := ActiveVacationDays(active, payload.User)
	if ExceedsCap(existingDays, newDays) {
		total := existingDays + newDays
		if !decide.ConfirmExcessDays(total) {
			return Request{}, &ConfirmationError{Confirmation: ConfirmExcessDays, TotalDays: total}
		}
	}

	existing := DetectOverlap(active, payload.User, payload.StartDate, payload.EndDate)
	if existing == nil {
		return r.store.CreateVacation(ctx, payload)
	}

	if !decide.ConfirmReplace(*existing) {
		return Request{}, &ConfirmationError{Confirmation: ConfirmReplace, Existing: existing}
	}

	// The overlapping record must be acknowledged as gone before the
	// replacement exists; a failed delete leaves the original canonical.
	if err := r.store.Delete(ctx, KindVacation, existing.ID); err != nil {
		return Request{}, err
	}
	created, err := r.store.CreateVacation(ctx, payload)
	if err != nil {
		return Request{}, &ReplaceError{Deleted: *existing, Err: err}
	}
	return created, nil
}
