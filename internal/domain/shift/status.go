package shift

import (
	"strings"

	"fuelshift/internal/domain/auth"
)

// Decide applies the transition rules for a single shift and returns the
// accepted decision or the rejection reason. It is pure: persistence happens
// in Service.TransitionStatus after the decision is accepted.
//
// Rules, in order: the requested status must parse; Locked and Rejected are
// terminal; a non-elevated actor must own the shift, the shift must still be
// Pending, and the actor may only approve or reject it; locking requires the
// shift to be Approved. Elevated actors are otherwise unrestricted, which
// mirrors how supervisors correct mis-entered rosters in practice.
func Decide(actor Actor, ownerEmployeeID string, current Status, requested string) (Decision, error) {
	if strings.TrimSpace(requested) == "" {
		return Decision{}, ErrStatusRequired
	}
	next, ok := ParseStatus(requested)
	if !ok {
		return Decision{}, ErrInvalidStatus
	}

	switch current {
	case StatusLocked:
		return Decision{}, ErrLockedShift
	case StatusRejected:
		return Decision{}, ErrRejectedShift
	}

	if !auth.Elevated(actor.Role) {
		if actor.EmployeeID == "" {
			return Decision{}, ErrNotAnEmployee
		}
		if actor.EmployeeID != ownerEmployeeID {
			return Decision{}, ErrNotShiftOwner
		}
		if current != StatusPending {
			return Decision{}, ErrNotPending
		}
		if next != StatusApproved && next != StatusRejected {
			return Decision{}, ErrEmployeeTransition
		}
	}

	if next == StatusLocked && current != StatusApproved {
		return Decision{}, ErrLockRequiresApproval
	}

	return Decision{
		Next:          next,
		StampApproval: next == StatusApproved || next == StatusRejected,
	}, nil
}
