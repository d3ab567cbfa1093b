package measurement

import (
	"context"

	domain "gymdesk/internal/domain/measurement"
)

// Store persists Measurement state. Measurements are append-only.
type Store interface {
	Create(ctx context.Context, value *domain.Measurement) error
	ListByMember(ctx context.Context, memberID int64) ([]domain.Measurement, error)
}
