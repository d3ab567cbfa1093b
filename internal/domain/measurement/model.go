package measurement

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptyMemberID = errors.New("measurement must be associated with a member")
	ErrInvalidDate   = errors.New("measurement date must use YYYY-MM-DD")
	ErrInvalidWeight = errors.New("weight must be between 0 and 500 kg")
	ErrNegativeValue = errors.New("body measurements cannot be negative")
)

// Measurement is one body-measurement entry. Rows are append-only.
type Measurement struct {
	ID       int64   `json:"id"`
	MemberID int64   `json:"member_id"`
	Date     string  `json:"date"`
	Weight   float64 `json:"weight"`
	BodyFat  float64 `json:"body_fat"`
	Chest    float64 `json:"chest"`
	Waist    float64 `json:"waist"`
	Arms     float64 `json:"arms"`
	Notes    string  `json:"notes"`
}

// Validate checks if the Measurement has valid data.
// PRE: Measurement struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Measurement) Validate() error {
	if m.MemberID <= 0 {
		return ErrEmptyMemberID
	}
	if _, err := time.Parse("2006-01-02", m.Date); err != nil {
		return ErrInvalidDate
	}
	if m.Weight < 0 || m.Weight > 500 {
		return ErrInvalidWeight
	}
	if m.BodyFat < 0 || m.Chest < 0 || m.Waist < 0 || m.Arms < 0 {
		return ErrNegativeValue
	}
	return nil
}
