package machine

import (
	"errors"
	"strings"
	"time"
)

// Machine status values.
const (
	StatusOperational = "Operational"
	StatusMaintenance = "Under Maintenance"
	StatusBroken      = "Broken"
)

// Domain errors
var (
	ErrEmptyName      = errors.New("machine name cannot be empty")
	ErrInvalidStatus  = errors.New("machine status must be Operational, Under Maintenance or Broken")
	ErrInvalidDate    = errors.New("maintenance dates must use YYYY-MM-DD")
	ErrNextBeforeLast = errors.New("next maintenance cannot be before last maintenance")
)

// Machine is a piece of gym equipment and its maintenance schedule.
type Machine struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	LastMaintenance string `json:"last_maintenance"`
	NextMaintenance string `json:"next_maintenance"`
}

// Validate checks if the Machine has valid data.
// PRE: Machine struct is initialized
// POST: Returns error if validation fails, nil otherwise; empty Status defaults to Operational
func (m *Machine) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if m.Status == "" {
		m.Status = StatusOperational
	}
	switch m.Status {
	case StatusOperational, StatusMaintenance, StatusBroken:
	default:
		return ErrInvalidStatus
	}
	for _, d := range []string{m.LastMaintenance, m.NextMaintenance} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return ErrInvalidDate
		}
	}
	if m.LastMaintenance != "" && m.NextMaintenance != "" && m.NextMaintenance < m.LastMaintenance {
		return ErrNextBeforeLast
	}
	return nil
}

// MaintenanceDue reports whether the next maintenance date is today or earlier.
func (m *Machine) MaintenanceDue(today time.Time) bool {
	return m.NextMaintenance != "" && m.NextMaintenance <= today.Format("2006-01-02")
}
