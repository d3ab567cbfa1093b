package machine

import (
	"context"

	domain "gymdesk/internal/domain/machine"
)

// Store persists Machine state.
type Store interface {
	Save(ctx context.Context, value *domain.Machine) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Machine, error)
}
