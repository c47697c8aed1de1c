package shift

import "errors"

var (
	// Validation failures. Nothing is persisted.
	ErrStatusRequired        = errors.New("status is required")
	ErrInvalidStatus         = errors.New("invalid status value, allowed: Pending, Approved, Locked, Rejected")
	ErrInvalidTime           = errors.New("time must be in HH:MM format")
	ErrTimeOutNotAfterTimeIn = errors.New("timeOut must be after timeIn")

	// Policy rejections. Expected business outcomes, not faults.
	ErrLockedShift          = errors.New("locked shift cannot be modified")
	ErrRejectedShift        = errors.New("rejected shift cannot be modified")
	ErrNotAnEmployee        = errors.New("not an employee account")
	ErrNotShiftOwner        = errors.New("cannot change status of another employee's shift")
	ErrNotPending           = errors.New("employees can only update pending shifts")
	ErrEmployeeTransition   = errors.New("employees can only set status to Approved or Rejected")
	ErrLockRequiresApproval = errors.New("only approved shifts can be locked")

	ErrShiftNotFound = errors.New("shift not found")
)

var policyRejections = []error{
	ErrStatusRequired,
	ErrInvalidStatus,
	ErrLockedShift,
	ErrRejectedShift,
	ErrNotAnEmployee,
	ErrNotShiftOwner,
	ErrNotPending,
	ErrEmployeeTransition,
	ErrLockRequiresApproval,
}

// IsPolicyRejection distinguishes expected transition rejections from
// persistence failures, so callers can report the former verbatim and keep
// the latter generic.
func IsPolicyRejection(err error) bool {
	for _, candidate := range policyRejections {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
