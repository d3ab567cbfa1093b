package orchestrators

import (
	"context"

	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/plan"
)

// MemberLookup resolves a member by id. Implementations return a wrapped storage.ErrNotFound when absent.
type MemberLookup interface {
	GetByID(ctx context.Context, id int64) (member.Member, error)
}

// DietStoreForSave defines the diet store interface needed by SaveDiet.
type DietStoreForSave interface {
	Upsert(ctx context.Context, value *plan.DietPlan) error
}

// WorkoutStoreForSave defines the workout store interface needed by SaveWorkout.
type WorkoutStoreForSave interface {
	Upsert(ctx context.Context, value *plan.WorkoutPlan) error
}

// SavePlanDeps holds dependencies for SaveDiet and SaveWorkout.
type SavePlanDeps struct {
	Members  MemberLookup
	Diet     DietStoreForSave
	Workouts WorkoutStoreForSave
}

// ExecuteSaveDiet validates and upserts one meal of a member's diet.
// PRE: input.MemberID references an existing member
// POST: Exactly one row for (member, meal type), holding input.Items
func ExecuteSaveDiet(ctx context.Context, input plan.DietPlan, deps SavePlanDeps) (plan.DietPlan, error) {
	if err := input.Validate(); err != nil {
		return plan.DietPlan{}, err
	}
	if _, err := deps.Members.GetByID(ctx, input.MemberID); err != nil {
		return plan.DietPlan{}, err
	}
	if err := deps.Diet.Upsert(ctx, &input); err != nil {
		return plan.DietPlan{}, err
	}
	return input, nil
}

// ExecuteSaveWorkout validates and upserts one day of a member's routine.
// PRE: input.MemberID references an existing member
// POST: Exactly one row for (member, day), holding input.Exercises
func ExecuteSaveWorkout(ctx context.Context, input plan.WorkoutPlan, deps SavePlanDeps) (plan.WorkoutPlan, error) {
	if err := input.Validate(); err != nil {
		return plan.WorkoutPlan{}, err
	}
	if _, err := deps.Members.GetByID(ctx, input.MemberID); err != nil {
		return plan.WorkoutPlan{}, err
	}
	if err := deps.Workouts.Upsert(ctx, &input); err != nil {
		return plan.WorkoutPlan{}, err
	}
	return input, nil
}
