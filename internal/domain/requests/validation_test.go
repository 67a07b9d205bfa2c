package requests

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(day(2026, 3, 10), day(2026, 3, 12)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateRange(day(2026, 3, 10), day(2026, 3, 10)); err != nil {
		t.Fatalf("single-day range should be valid: %v", err)
	}
	if err := ValidateRange(day(2026, 3, 12), day(2026, 3, 10)); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestDayCount(t *testing.T) {
	if got := DayCount(day(2026, 3, 10), day(2026, 3, 10)); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}
	if got := DayCount(day(2026, 3, 10), day(2026, 3, 12)); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	if got := DayCount(day(2026, 3, 12), day(2026, 3, 10)); got != 0 {
		t.Fatalf("expected 0 days for inverted range, got %d", got)
	}
}

func TestValidateSelfReference(t *testing.T) {
	if err := ValidateSelfReference("alice", "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateSelfReference("alice", "alice"); err != ErrSelfRequest {
		t.Fatalf("expected ErrSelfRequest, got %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint", day(2026, 1, 1), day(2026, 1, 5), day(2026, 1, 6), day(2026, 1, 10), false},
		{"touching boundary", day(2026, 1, 1), day(2026, 1, 5), day(2026, 1, 5), day(2026, 1, 10), true},
		{"contained", day(2026, 1, 1), day(2026, 1, 10), day(2026, 1, 3), day(2026, 1, 4), true},
		{"identical", day(2026, 1, 1), day(2026, 1, 5), day(2026, 1, 1), day(2026, 1, 5), true},
		{"reversed order", day(2026, 1, 6), day(2026, 1, 10), day(2026, 1, 1), day(2026, 1, 5), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func vacation(id, user string, status string, start, end time.Time) Request {
	return Request{
		ID:     id,
		Kind:   KindVacation,
		Status: status,
		Vacation: &VacationPayload{
			User:      user,
			StartDate: start,
			EndDate:   end,
		},
	}
}

func TestDetectOverlap(t *testing.T) {
	records := []Request{
		vacation("v1", "alice", StatusRejected, day(2026, 6, 1), day(2026, 6, 10)),
		vacation("v2", "bob", StatusPending, day(2026, 6, 1), day(2026, 6, 10)),
		vacation("v3", "alice", StatusApproved, day(2026, 6, 5), day(2026, 6, 8)),
	}

	hit := DetectOverlap(records, "alice", day(2026, 6, 8), day(2026, 6, 12))
	if hit == nil || hit.ID != "v3" {
		t.Fatalf("expected v3, got %+v", hit)
	}

	// Rejected records no longer occupy their dates.
	if hit := DetectOverlap(records, "alice", day(2026, 6, 1), day(2026, 6, 4)); hit != nil {
		t.Fatalf("expected no overlap, got %+v", hit)
	}

	// Other users' records never conflict.
	if hit := DetectOverlap(records, "carol", day(2026, 6, 1), day(2026, 6, 10)); hit != nil {
		t.Fatalf("expected no overlap for carol, got %+v", hit)
	}
}

func TestActiveVacationDays(t *testing.T) {
	records := []Request{
		vacation("v1", "alice", StatusPending, day(2026, 7, 1), day(2026, 7, 10)),  // 10 days
		vacation("v2", "alice", StatusApproved, day(2026, 8, 1), day(2026, 8, 5)),  // 5 days
		vacation("v3", "alice", StatusRejected, day(2026, 9, 1), day(2026, 9, 30)), // ignored
		vacation("v4", "bob", StatusPending, day(2026, 7, 1), day(2026, 7, 31)),    // other user
	}
	if got := ActiveVacationDays(records, "alice"); got != 15 {
		t.Fatalf("expected 15 active days, got %d", got)
	}
}

func TestExceedsCap(t *testing.T) {
	if ExceedsCap(0, VacationDayCap) {
		t.Fatal("reaching the cap exactly should not trigger confirmation")
	}
	if !ExceedsCap(0, VacationDayCap+1) {
		t.Fatal("one day over the cap should trigger confirmation")
	}
	if !ExceedsCap(20, 15) {
		t.Fatal("cumulative total over the cap should trigger confirmation")
	}
}
