package requests

import (
	"context"
	"time"

	"intranet/internal/domain/auth"
)

// DirectoryAPI is the slice of the user directory the request engine needs:
// department membership for acceptor scoping and manager list views.
type DirectoryAPI interface {
	Department(ctx context.Context, username string) (string, error)
}

type Service struct {
	Store    StoreAPI
	Resolver *Resolver
	Dir      DirectoryAPI
}

func NewService(store StoreAPI, dir DirectoryAPI) *Service {
	return &Service{Store: store, Resolver: NewResolver(store), Dir: dir}
}

func (s *Service) CreatePermission(ctx context.Context, actor Actor, payload PermissionPayload) (Request, error) {
	payload.User = actor.Username
	if err := ValidateRange(payload.StartDate, payload.EndDate); err != nil {
		return Request{}, err
	}
	return s.Store.CreatePermission(ctx, payload)
}

// CreateVacation delegates to the conflict resolver; the decider answers the
// day-cap and overlap confirmations.
func (s *Service) CreateVacation(ctx context.Context, actor Actor, payload VacationPayload, decide Decider) (Request, error) {
	payload.User = actor.Username
	return s.Resolver.CreateVacation(ctx, payload, decide)
}

func (s *Service) CreateShiftChange(ctx context.Context, actor Actor, payload ShiftChangePayload) (Request, error) {
	payload.Requester = actor.Username
	if err := ValidateSelfReference(payload.Requester, payload.Acceptor); err != nil {
		return Request{}, err
	}

	// Acceptor candidates are limited to the requester's own department.
	requesterDept, err := s.Dir.Department(ctx, payload.Requester)
	if err != nil {
		return Request{}, err
	}
	acceptorDept, err := s.Dir.Department(ctx, payload.Acceptor)
	if err != nil {
		return Request{}, err
	}
	if requesterDept == "" || requesterDept != acceptorDept {
		return Request{}, ErrOutOfScope
	}

	return s.Store.CreateShiftChange(ctx, payload)
}

func (s *Service) Approve(ctx context.Context, actor Actor, kind Kind, id string) (Request, error) {
	req, err := s.Store.Get(ctx, kind, id)
	if err != nil {
		return Request{}, err
	}
	updated, err := Approve(req, actor)
	if err != nil {
		return Request{}, err
	}
	if err := s.Store.Update(ctx, updated); err != nil {
		return Request{}, err
	}
	return updated, nil
}

func (s *Service) Reject(ctx context.Context, actor Actor, kind Kind, id, reason string) (Request, error) {
	req, err := s.Store.Get(ctx, kind, id)
	if err != nil {
		return Request{}, err
	}
	updated, err := Reject(req, actor, reason)
	if err != nil {
		return Request{}, err
	}
	if err := s.Store.Update(ctx, updated); err != nil {
		return Request{}, err
	}
	return updated, nil
}

func (s *Service) Modify(ctx context.Context, actor Actor, kind Kind, id string, mod Modification, reason string) (Request, error) {
	req, err := s.Store.Get(ctx, kind, id)
	if err != nil {
		return Request{}, err
	}
	updated, err := Modify(req, actor, mod, reason)
	if err != nil {
		return Request{}, err
	}
	if err := s.Store.Update(ctx, updated); err != nil {
		return Request{}, err
	}
	return updated, nil
}

func (s *Service) Hide(ctx context.Context, actor Actor, kind Kind, id string) (Request, error) {
	req, err := s.Store.Get(ctx, kind, id)
	if err != nil {
		return Request{}, err
	}
	updated, err := Hide(req, actor.Username)
	if err != nil {
		return Request{}, err
	}
	if len(updated.HiddenBy) == len(req.HiddenBy) {
		return updated, nil
	}
	if err := s.Store.AddHidden(ctx, kind, id, actor.Username); err != nil {
		return Request{}, err
	}
	return updated, nil
}

// Delete is the owner cleanup path: only the owner, only once rejected. The
// resolver's supersession delete bypasses this and goes through the store
// directly.
func (s *Service) Delete(ctx context.Context, actor Actor, kind Kind, id string) (Request, error) {
	req, err := s.Store.Get(ctx, kind, id)
	if err != nil {
		return Request{}, err
	}
	if req.Owner() != actor.Username {
		return Request{}, ErrForbidden
	}
	if req.Status != StatusRejected {
		return Request{}, ErrNotDeletable
	}
	if err := s.Store.Delete(ctx, kind, id); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Service) Get(ctx context.Context, kind Kind, id string) (Request, error) {
	return s.Store.Get(ctx, kind, id)
}

func (s *Service) List(ctx context.Context, actor Actor, kind Kind) ([]Request, error) {
	scope := ListScope{Viewer: actor.Username, ManagerView: actor.Role == auth.RoleManager}
	if scope.ManagerView {
		dept, err := s.Dir.Department(ctx, actor.Username)
		if err != nil {
			return nil, err
		}
		scope.Department = dept
	}
	return s.Store.List(ctx, kind, scope)
}

// CalendarEntry is one row of the request-store calendar feed.
type CalendarEntry struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	User      string    `json:"user"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	Label     string    `json:"label"`
}

// CalendarEntries flattens the viewer's active requests of all three kinds
// into calendar rows.
func (s *Service) CalendarEntries(ctx context.Context, actor Actor) ([]CalendarEntry, error) {
	var out []CalendarEntry
	for _, kind := range []Kind{KindPermission, KindVacation, KindShiftChange} {
		records, err := s.List(ctx, actor, kind)
		if err != nil {
			return nil, err
		}
		for _, req := range records {
			if !req.Active() {
				continue
			}
			start, end := req.Span()
			entry := CalendarEntry{
				ID:        req.ID,
				Kind:      req.Kind,
				User:      req.Owner(),
				StartDate: start,
				EndDate:   end,
				Status:    req.Status,
			}
			switch {
			case req.Permission != nil:
				entry.Label = req.Permission.Reason
			case req.Vacation != nil:
				entry.Label = req.Vacation.Period
			case req.ShiftChange != nil:
				entry.Label = "shift change with " + req.ShiftChange.Acceptor
			}
			out = append(out, entry)
		}
	}
	return out, nil
}
