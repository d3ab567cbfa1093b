package attendance

import (
	"errors"
	"time"
)

// Status values for an attendance row.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Domain errors
var (
	ErrEmptyMemberID = errors.New("attendance must be associated with a member")
	ErrInvalidDate   = errors.New("attendance date must use YYYY-MM-DD")
	ErrInvalidStatus = errors.New("attendance status must be present or absent")
)

// Attendance records whether a member was present on a calendar day.
// At most one row exists per (MemberID, Date).
type Attendance struct {
	ID         int64  `json:"id"`
	MemberID   int64  `json:"member_id"`
	MemberName string `json:"member_name,omitempty"` // read-only, joined from member
	Date       string `json:"date"`                  // YYYY-MM-DD format
	Status     string `json:"status"`
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MemberID must be set, Date must parse, Status must be present or absent
func (a *Attendance) Validate() error {
	if a.MemberID <= 0 {
		return ErrEmptyMemberID
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return ErrInvalidDate
	}
	if a.Status != StatusPresent && a.Status != StatusAbsent {
		return ErrInvalidStatus
	}
	return nil
}

// IsPresent returns true if the member attended.
func (a *Attendance) IsPresent() bool {
	return a.Status == StatusPresent
}
