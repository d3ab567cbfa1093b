package trainer

import (
	"errors"
	"strings"
)

// MaxNameLength bounds trainer names.
const MaxNameLength = 100

// Domain errors
var (
	ErrEmptyName   = errors.New("trainer name cannot be empty")
	ErrNameTooLong = errors.New("trainer name cannot exceed 100 characters")
	ErrHasMembers  = errors.New("trainer still has assigned members")
)

// Trainer is a staff member who can be assigned to members.
type Trainer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty
func (t *Trainer) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
