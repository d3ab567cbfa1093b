package orchestrators

import (
	"context"
	"log/slog"

	"gymdesk/internal/domain/trainer"
)

// TrainerStoreForDelete defines the trainer store interface needed by DeleteTrainer.
type TrainerStoreForDelete interface {
	Delete(ctx context.Context, id int64) error
}

// MemberCounterForDelete defines the member store interface needed by DeleteTrainer.
type MemberCounterForDelete interface {
	CountByTrainer(ctx context.Context, trainerID int64) (int, error)
}

// DeleteTrainerDeps holds dependencies for DeleteTrainer.
type DeleteTrainerDeps struct {
	TrainerStore TrainerStoreForDelete
	MemberStore  MemberCounterForDelete
}

// ExecuteDeleteTrainer removes a trainer that has no assigned members.
// PRE: id > 0
// POST: Trainer removed; trainer.ErrHasMembers while members are still assigned
func ExecuteDeleteTrainer(ctx context.Context, id int64, deps DeleteTrainerDeps) error {
	n, err := deps.MemberStore.CountByTrainer(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("trainer_event", "event", "delete_blocked", "trainer_id", id, "members", n)
		return trainer.ErrHasMembers
	}
	return deps.TrainerStore.Delete(ctx, id)
}
