package attendance

import (
	"context"

	domain "gymdesk/internal/domain/attendance"
)

// Store persists Attendance state.
type Store interface {
	Upsert(ctx context.Context, value *domain.Attendance) error
	List(ctx context.Context, filter ListFilter) ([]domain.Attendance, error)
}

// ListFilter carries filtering parameters for List operations. Zero values match everything.
type ListFilter struct {
	Date     string
	MemberID int64
}
