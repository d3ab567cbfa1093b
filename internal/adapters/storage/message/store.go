package message

import (
	"context"

	domain "gymdesk/internal/domain/message"
)

// Store persists chat Message state. Messages are append-only.
type Store interface {
	Create(ctx context.Context, value *domain.Message) error
	ListByMember(ctx context.Context, memberID int64) ([]domain.Message, error)
}
