package plan

import (
	"context"

	domain "gymdesk/internal/domain/plan"
)

// DietStore persists DietPlan state.
type DietStore interface {
	Upsert(ctx context.Context, value *domain.DietPlan) error
	ListByMember(ctx context.Context, memberID int64) ([]domain.DietPlan, error)
	Delete(ctx context.Context, id int64) error
}

// WorkoutStore persists WorkoutPlan state.
type WorkoutStore interface {
	Upsert(ctx context.Context, value *domain.WorkoutPlan) error
	ListByMember(ctx context.Context, memberID int64) ([]domain.WorkoutPlan, error)
	Delete(ctx context.Context, id int64) error
}
