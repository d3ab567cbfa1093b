package member

import (
	"context"

	domain "gymdesk/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Member, error)
	GetByLogin(ctx context.Context, phone, dob string) (domain.Member, error)
	Save(ctx context.Context, value *domain.Member) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	CountByTrainer(ctx context.Context, trainerID int64) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Today     string // YYYY-MM-DD used for status and ordering; defaults to the store clock
	TrainerID int64
	// ExpiringBy limits results to memberships expiring between Today and this date inclusive.
	ExpiringBy string
}
