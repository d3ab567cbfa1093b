package member

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage and wire format for calendar dates.
const DateLayout = "2006-01-02"

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxPhoneLength = 20
	MaxPhotoBytes  = 2 << 20
)

// Derived status values. Status is never stored; it is computed from ExpiryDate at read time.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Plan type constants with a known duration.
const (
	PlanMonthly    = "Monthly"
	PlanQuarterly  = "Quarterly"
	PlanHalfYearly = "Half-Yearly"
	PlanYearly     = "Yearly"
)

// ExpiringSoonDays is the window used for "expiring soon" counts.
const ExpiringSoonDays = 7

var planMonths = map[string]int{
	PlanMonthly:    1,
	PlanQuarterly:  3,
	PlanHalfYearly: 6,
	PlanYearly:     12,
}

// Domain errors
var (
	ErrEmptyName        = errors.New("member name cannot be empty")
	ErrNameTooLong      = errors.New("member name cannot exceed 100 characters")
	ErrEmptyPhone       = errors.New("member phone cannot be empty")
	ErrInvalidPhone     = errors.New("member phone must be at most 20 characters")
	ErrInvalidEmail     = errors.New("member email must be valid")
	ErrInvalidDate      = errors.New("dates must use YYYY-MM-DD")
	ErrExpiryBeforeJoin = errors.New("expiry date cannot be before start date")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidHeight    = errors.New("height must be between 0 and 300 cm")
	ErrInvalidPhoto     = errors.New("photo must be an image data URI")
	ErrPhotoTooLarge    = errors.New("photo exceeds 2 MB")
	ErrUnknownPlan      = errors.New("expiry date is required for a custom plan type")
)

// Member is a gym member and their current membership.
type Member struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email,omitempty"`
	DOB        string          `json:"dob,omitempty"`
	Photo      string          `json:"photo,omitempty"`
	Height     float64         `json:"height,omitempty"`
	PlanType   string          `json:"plan_type"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  string          `json:"start_date"`
	ExpiryDate string          `json:"expiry_date"`
	TrainerID  *int64          `json:"trainer_id"`
	Status     string          `json:"status"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name and Phone must not be empty, dates must parse, expiry >= start
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(m.Phone) == "" {
		return ErrEmptyPhone
	}
	if len(m.Phone) > MaxPhoneLength {
		return ErrInvalidPhone
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	for _, d := range []string{m.DOB, m.StartDate, m.ExpiryDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return ErrInvalidDate
		}
	}
	if m.StartDate == "" || m.ExpiryDate == "" {
		return ErrInvalidDate
	}
	if m.ExpiryDate < m.StartDate {
		return ErrExpiryBeforeJoin
	}
	if m.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if m.Height < 0 || m.Height > 300 {
		return ErrInvalidHeight
	}
	if m.Photo != "" {
		if !strings.HasPrefix(m.Photo, "data:image/") {
			return ErrInvalidPhoto
		}
		if len(m.Photo) > MaxPhotoBytes {
			return ErrPhotoTooLarge
		}
	}
	return nil
}

// FillExpiry derives ExpiryDate from StartDate and PlanType when it is empty.
// PRE: StartDate is a valid date
// POST: ExpiryDate is set for known plan types; unchanged otherwise
func (m *Member) FillExpiry() error {
	if m.ExpiryDate != "" {
		return nil
	}
	months, ok := planMonths[m.PlanType]
	if !ok {
		return ErrUnknownPlan
	}
	start, err := time.Parse(DateLayout, m.StartDate)
	if err != nil {
		return ErrInvalidDate
	}
	m.ExpiryDate = start.AddDate(0, months, 0).Format(DateLayout)
	return nil
}

// StatusOn returns the derived membership status for the given day.
// INVARIANT: fields are not mutated
func (m *Member) StatusOn(today time.Time) string {
	if m.ExpiryDate >= today.Format(DateLayout) {
		return StatusActive
	}
	return StatusExpired
}

// IsExpiringSoon reports whether an active membership ends within ExpiringSoonDays of today.
func (m *Member) IsExpiringSoon(today time.Time) bool {
	from := today.Format(DateLayout)
	to := today.AddDate(0, 0, ExpiringSoonDays).Format(DateLayout)
	return m.ExpiryDate >= from && m.ExpiryDate <= to
}

// HasBirthdayOn reports whether the member's date of birth falls on the same month and day.
func (m *Member) HasBirthdayOn(today time.Time) bool {
	dob, err := time.Parse(DateLayout, m.DOB)
	if err != nil {
		return false
	}
	return dob.Month() == today.Month() && dob.Day() == today.Day()
}

// DaysSinceJoining returns the ceiling of elapsed days since StartDate, never less than 1.
func (m *Member) DaysSinceJoining(now time.Time) int {
	start, err := time.ParseInLocation(DateLayout, m.StartDate, now.Location())
	if err != nil {
		return 1
	}
	days := int(math.Ceil(now.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// BMI computes body-mass index from a weight in kg and height in cm. Returns 0 when height is unknown.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}
