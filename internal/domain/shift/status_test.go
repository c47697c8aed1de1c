package shift

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"Pending", StatusPending, true},
		{"approved", StatusApproved, true},
		{"  LOCKED  ", StatusLocked, true},
		{"rejected", StatusRejected, true},
		{"", "", false},
		{"archived", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDecideTerminalStates(t *testing.T) {
	admin := Actor{UserID: "u1", Role: "admin"}

	if _, err := Decide(admin, "e1", StatusLocked, "Approved"); !errors.Is(err, ErrLockedShift) {
		t.Fatalf("expected ErrLockedShift, got %v", err)
	}
	if _, err := Decide(admin, "e1", StatusRejected, "Approved"); !errors.Is(err, ErrRejectedShift) {
		t.Fatalf("expected ErrRejectedShift, got %v", err)
	}
	// Terminal check runs before ownership: a different employee hitting a
	// locked shift still sees the locked rejection.
	other := Actor{UserID: "u2", Role: "employee", EmployeeID: "e2"}
	if _, err := Decide(other, "e1", StatusLocked, "Approved"); !errors.Is(err, ErrLockedShift) {
		t.Fatalf("expected ErrLockedShift before ownership check, got %v", err)
	}
}

func TestDecideRequestedStatusValidation(t *testing.T) {
	admin := Actor{UserID: "u1", Role: "admin"}

	if _, err := Decide(admin, "e1", StatusPending, ""); !errors.Is(err, ErrStatusRequired) {
		t.Fatalf("expected ErrStatusRequired, got %v", err)
	}
	if _, err := Decide(admin, "e1", StatusPending, "   "); !errors.Is(err, ErrStatusRequired) {
		t.Fatalf("expected ErrStatusRequired for blank, got %v", err)
	}
	if _, err := Decide(admin, "e1", StatusPending, "Archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDecideEmployeeRules(t *testing.T) {
	owner := Actor{UserID: "u1", Role: "employee", EmployeeID: "e1"}

	cases := []struct {
		name      string
		actor     Actor
		owner     string
		current   Status
		requested string
		wantErr   error
	}{
		{"no employee record", Actor{UserID: "u9", Role: "employee"}, "e1", StatusPending, "Approved", ErrNotAnEmployee},
		{"not the owner", Actor{UserID: "u2", Role: "employee", EmployeeID: "e2"}, "e1", StatusPending, "Approved", ErrNotShiftOwner},
		{"already approved", owner, "e1", StatusApproved, "Rejected", ErrNotPending},
		{"cannot lock", owner, "e1", StatusPending, "Locked", ErrEmployeeTransition},
		{"cannot reset to pending", owner, "e1", StatusPending, "Pending", ErrEmployeeTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decide(tc.actor, tc.owner, tc.current, tc.requested); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	decision, err := Decide(owner, "e1", StatusPending, "approved")
	if err != nil {
		t.Fatalf("owner approving own pending shift: %v", err)
	}
	if decision.Next != StatusApproved || !decision.StampApproval {
		t.Fatalf("expected Approved with approval stamp, got %+v", decision)
	}

	decision, err = Decide(owner, "e1", StatusPending, "Rejected")
	if err != nil {
		t.Fatalf("owner rejecting own pending shift: %v", err)
	}
	if decision.Next != StatusRejected || !decision.StampApproval {
		t.Fatalf("expected Rejected with approval stamp, got %+v", decision)
	}
}

func TestDecideLockRequiresApproval(t *testing.T) {
	for _, role := range []string{"admin", "manager", "supervisor"} {
		actor := Actor{UserID: "u1", Role: role}
		if _, err := Decide(actor, "e1", StatusPending, "Locked"); !errors.Is(err, ErrLockRequiresApproval) {
			t.Fatalf("role %s: expected ErrLockRequiresApproval from Pending, got %v", role, err)
		}

		decision, err := Decide(actor, "e1", StatusApproved, "Locked")
		if err != nil {
			t.Fatalf("role %s: locking approved shift: %v", role, err)
		}
		if decision.Next != StatusLocked {
			t.Fatalf("role %s: expected Locked, got %v", role, decision.Next)
		}
		if decision.StampApproval {
			t.Fatalf("role %s: locking must not restamp the approval time", role)
		}
	}
}

func TestDecideElevatedTransitions(t *testing.T) {
	supervisor := Actor{UserID: "u1", Role: "supervisor", EmployeeID: "e9"}

	// Elevated actors are not bound by ownership or the pending-only rule.
	decision, err := Decide(supervisor, "e1", StatusApproved, "Pending")
	if err != nil {
		t.Fatalf("supervisor resetting approved shift: %v", err)
	}
	if decision.Next != StatusPending || decision.StampApproval {
		t.Fatalf("expected Pending without approval stamp, got %+v", decision)
	}

	decision, err = Decide(supervisor, "e1", StatusPending, "Rejected")
	if err != nil {
		t.Fatalf("supervisor rejecting shift: %v", err)
	}
	if decision.Next != StatusRejected || !decision.StampApproval {
		t.Fatalf("expected Rejected with approval stamp, got %+v", decision)
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusApproved.Terminal() {
		t.Fatal("Pending and Approved must not be terminal")
	}
	if !StatusLocked.Terminal() || !StatusRejected.Terminal() {
		t.Fatal("Locked and Rejected must be terminal")
	}
}
