package shift

import (
	"math"
	"strings"
	"time"
)

// Status is the lifecycle state of a shift. Pending is the initial state,
// Rejected and Locked are terminal, and Locked is reachable only from
// Approved.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusLocked   Status = "Locked"
)

// ParseStatus trims and matches case-insensitively, returning the canonical
// spelling.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending, true
	case "approved":
		return StatusApproved, true
	case "rejected":
		return StatusRejected, true
	case "locked":
		return StatusLocked, true
	}
	return "", false
}

func (s Status) Terminal() bool {
	return s == StatusLocked || s == StatusRejected
}

type Shift struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	StationID   string     `json:"stationId"`
	ShiftTypeID string     `json:"shiftTypeId"`
	Date        time.Time  `json:"date"`
	TimeIn      string     `json:"timeIn"`
	TimeOut     string     `json:"timeOut"`
	TotalHours  float64    `json:"totalHours"`
	HourlyRate  float64    `json:"hourlyRate"`
	Status      Status     `json:"status"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Actor is the authenticated caller requesting a transition. EmployeeID is
// empty for logins not linked to an employee record (IT admin accounts).
type Actor struct {
	UserID     string
	Role       string
	EmployeeID string
}

// Decision is an accepted transition: the status to write and whether the
// approval timestamp gets stamped alongside it.
type Decision struct {
	Next          Status
	StampApproval bool
}

// ComputeHours returns the worked hours between two HH:MM times of day,
// rounded to 2 decimals. TimeOut must be after TimeIn; overnight shifts are
// recorded as two shifts, matching how rosters are entered.
func ComputeHours(timeIn, timeOut string) (float64, error) {
	in, err := time.Parse("15:04", strings.TrimSpace(timeIn))
	if err != nil {
		return 0, ErrInvalidTime
	}
	out, err := time.Parse("15:04", strings.TrimSpace(timeOut))
	if err != nil {
		return 0, ErrInvalidTime
	}
	if !out.After(in) {
		return 0, ErrTimeOutNotAfterTimeIn
	}
	hours := out.Sub(in).Hours()
	return math.Round(hours*100) / 100, nil
}
