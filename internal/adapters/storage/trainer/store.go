package trainer

import (
	"context"

	domain "gymdesk/internal/domain/trainer"
)

// Store persists Trainer state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Trainer, error)
	Save(ctx context.Context, value *domain.Trainer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Trainer, error)
}
