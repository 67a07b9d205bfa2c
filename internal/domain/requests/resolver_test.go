package requests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory StoreAPI with injectable failures.
type fakeStore struct {
	records   map[string]Request
	nextID    int
	deleted   []string
	deleteErr error
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]Request{}}
}

func (f *fakeStore) add(req Request) Request {
	if req.ID == "" {
		f.nextID++
		req.ID = fmt.Sprintf("r%d", f.nextID)
	}
	if req.HiddenBy == nil {
		req.HiddenBy = []string{}
	}
	f.records[req.ID] = req
	return req
}

func (f *fakeStore) CreatePermission(_ context.Context, payload PermissionPayload) (Request, error) {
	if f.createErr != nil {
		return Request{}, f.createErr
	}
	return f.add(Request{Kind: KindPermission, Status: StatusPending, CreatedAt: time.Now(), Permission: &payload}), nil
}

func (f *fakeStore) CreateVacation(_ context.Context, payload VacationPayload) (Request, error) {
	if f.createErr != nil {
		return Request{}, f.createErr
	}
	return f.add(Request{Kind: KindVacation, Status: StatusPending, CreatedAt: time.Now(), Vacation: &payload}), nil
}

func (f *fakeStore) CreateShiftChange(_ context.Context, payload ShiftChangePayload) (Request, error) {
	if f.createErr != nil {
		return Request{}, f.createErr
	}
	return f.add(Request{Kind: KindShiftChange, Status: StatusPending, CreatedAt: time.Now(), ShiftChange: &payload}), nil
}

func (f *fakeStore) Get(_ context.Context, _ Kind, id string) (Request, error) {
	req, ok := f.records[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (f *fakeStore) Update(_ context.Context, req Request) error {
	if _, ok := f.records[req.ID]; !ok {
		return ErrNotFound
	}
	f.records[req.ID] = req
	return nil
}

func (f *fakeStore) Delete(_ context.Context, _ Kind, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.records[id]; !ok {
		return ErrNotFound
	}
	delete(f.records, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) List(_ context.Context, kind Kind, scope ListScope) ([]Request, error) {
	var out []Request
	for _, req := range f.records {
		if req.Kind != kind {
			continue
		}
		if !scope.ManagerView && req.Owner() != scope.Viewer {
			if req.ShiftChange == nil || req.ShiftChange.Acceptor != scope.Viewer {
				continue
			}
		}
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeStore) ListActiveVacations(_ context.Context, user string) ([]Request, error) {
	var out []Request
	for _, req := range f.records {
		if req.Kind == KindVacation && req.Owner() == user && req.Active() {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeStore) AddHidden(_ context.Context, _ Kind, id, user string) error {
	req, ok := f.records[id]
	if !ok {
		return ErrNotFound
	}
	req.HiddenBy = append(req.HiddenBy, user)
	f.records[id] = req
	return nil
}

func TestResolverCreatesWhenClear(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	created, err := resolver.CreateVacation(context.Background(), VacationPayload{
		User:      "alice",
		StartDate: day(2026, 8, 1),
		EndDate:   day(2026, 8, 10),
		Period:    "summer",
	}, Decisions{})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Len(t, store.records, 1)
}

func TestResolverRejectsInvalidRange(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	_, err := resolver.CreateVacation(context.Background(), VacationPayload{
		User:      "alice",
		StartDate: day(2026, 8, 10),
		EndDate:   day(2026, 8, 1),
	}, Decisions{AcceptExcessDays: true, AcceptReplace: true})

	require.ErrorIs(t, err, ErrInvalidRange)
	assert.Empty(t, store.records)
}

func TestResolverDayCapConfirmation(t *testing.T) {
	store := newFakeStore()
	store.add(vacation("v1", "alice", StatusApproved, day(2026, 7, 1), day(2026, 7, 20))) // 20 days
	resolver := NewResolver(store)

	payload := VacationPayload{
		User:      "alice",
		StartDate: day(2026, 9, 1),
		EndDate:   day(2026, 9, 15), // 15 days, total 35 over the cap of 31
		Period:    "autumn",
	}

	_, err := resolver.CreateVacation(context.Background(), payload, Decisions{})
	var confirm *ConfirmationError
	require.ErrorAs(t, err, &confirm)
	assert.Equal(t, ConfirmExcessDays, confirm.Confirmation)
	assert.Equal(t, 35, confirm.TotalDays)
	assert.Len(t, store.records, 1, "refused confirmation must not write")

	created, err := resolver.CreateVacation(context.Background(), payload, Decisions{AcceptExcessDays: true})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
}

func TestResolverOverlapConfirmation(t *testing.T) {
	store := newFakeStore()
	existing := store.add(vacation("v1", "alice", StatusPending, day(2026, 8, 5), day(2026, 8, 12)))
	resolver := NewResolver(store)

	payload := VacationPayload{
		User:      "alice",
		StartDate: day(2026, 8, 10),
		EndDate:   day(2026, 8, 14),
		Period:    "revised",
	}

	_, err := resolver.CreateVacation(context.Background(), payload, Decisions{})
	var confirm *ConfirmationError
	require.ErrorAs(t, err, &confirm)
	assert.Equal(t, ConfirmReplace, confirm.Confirmation)
	require.NotNil(t, confirm.Existing)
	assert.Equal(t, existing.ID, confirm.Existing.ID)
	assert.Empty(t, store.deleted, "refused replace must not delete")

	created, err := resolver.CreateVacation(context.Background(), payload, Decisions{AcceptReplace: true})
	require.NoError(t, err)
	assert.Equal(t, []string{existing.ID}, store.deleted)
	_, err = store.Get(context.Background(), KindVacation, existing.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "revised", created.Vacation.Period)
}

func TestResolverFailedDeleteLeavesOriginal(t *testing.T) {
	store := newFakeStore()
	existing := store.add(vacation("v1", "alice", StatusApproved, day(2026, 8, 5), day(2026, 8, 12)))
	store.deleteErr = errors.New("connection reset")
	resolver := NewResolver(store)

	_, err := resolver.CreateVacation(context.Background(), VacationPayload{
		User:      "alice",
		StartDate: day(2026, 8, 10),
		EndDate:   day(2026, 8, 14),
	}, Decisions{AcceptReplace: true})

	require.Error(t, err)
	var replace *ReplaceError
	assert.False(t, errors.As(err, &replace), "failed delete is not a replace failure")
	got, getErr := store.Get(context.Background(), KindVacation, existing.ID)
	require.NoError(t, getErr)
	assert.Equal(t, existing.ID, got.ID, "original must remain canonical")
}

func TestResolverFailedCreateReportsReplaceError(t *testing.T) {
	store := newFakeStore()
	existing := store.add(vacation("v1", "alice", StatusApproved, day(2026, 8, 5), day(2026, 8, 12)))
	resolver := NewResolver(store)

	// Delete succeeds, then the replacement insert fails.
	store.createErr = errors.New("insert failed")

	_, err := resolver.CreateVacation(context.Background(), VacationPayload{
		User:      "alice",
		StartDate: day(2026, 8, 10),
		EndDate:   day(2026, 8, 14),
	}, Decisions{AcceptReplace: true})

	var replace *ReplaceError
	require.ErrorAs(t, err, &replace)
	assert.Equal(t, existing.ID, replace.Deleted.ID)
	assert.EqualError(t, replace.Err, "insert failed")
	assert.Equal(t, []string{existing.ID}, store.deleted)
}

func TestResolverNoConfirmationWithinCap(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	// Exactly at the cap needs no confirmation.
	created, err := resolver.CreateVacation(context.Background(), VacationPayload{
		User:      "alice",
		StartDate: day(2026, 8, 1),
		EndDate:   day(2026, 8, 31),
	}, Decisions{})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
}
