package requests

import "testing"

func TestHide(t *testing.T) {
	req := pendingPermission("alice")
	req.Status = StatusApproved

	updated, err := Hide(req, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.HiddenFor("alice") {
		t.Fatal("expected request hidden for alice")
	}
	if updated.HiddenFor("boss") {
		t.Fatal("hiding is per viewer, boss must still see the request")
	}
	if req.HiddenFor("alice") {
		t.Fatal("input record must not be mutated")
	}
}

func TestHideIdempotent(t *testing.T) {
	req := pendingPermission("alice")
	req.Status = StatusRejected
	req.HiddenBy = []string{"alice"}

	updated, err := Hide(req, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.HiddenBy) != 1 {
		t.Fatalf("expected one hidden entry, got %v", updated.HiddenBy)
	}
}

func TestHideRequiresTerminalStatus(t *testing.T) {
	req := pendingPermission("alice")
	for _, status := range []string{StatusPending, StatusModified} {
		req.Status = status
		if _, err := Hide(req, "alice"); err != ErrNotTerminal {
			t.Fatalf("status %s: expected ErrNotTerminal, got %v", status, err)
		}
	}
}

func TestHideAccumulatesViewers(t *testing.T) {
	req := pendingPermission("alice")
	req.Status = StatusRejected

	first, err := Hide(req, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Hide(first, "boss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.HiddenFor("alice") || !second.HiddenFor("boss") {
		t.Fatalf("expected both viewers hidden, got %v", second.HiddenBy)
	}
}
