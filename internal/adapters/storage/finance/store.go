package finance

import (
	"context"

	domain "gymdesk/internal/domain/finance"
)

// Store persists Finance state.
type Store interface {
	Create(ctx context.Context, value *domain.Finance) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]domain.Finance, error)
}

// ListFilter carries filtering parameters for List operations. Zero values match everything.
type ListFilter struct {
	From     string // inclusive YYYY-MM-DD
	To       string // inclusive YYYY-MM-DD
	MemberID int64
}
