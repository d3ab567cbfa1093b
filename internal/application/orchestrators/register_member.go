package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/trainer"
)

// MemberStoreForSave defines the member store interface needed by SaveMember.
type MemberStoreForSave interface {
	Save(ctx context.Context, value *member.Member) error
}

// TrainerStoreForSave defines the trainer store interface needed by SaveMember.
type TrainerStoreForSave interface {
	GetByID(ctx context.Context, id int64) (trainer.Trainer, error)
}

// SaveMemberInput carries input for the save-member orchestrator.
// A zero Member.ID registers a new member; otherwise the member is updated.
type SaveMemberInput struct {
	Member member.Member
}

// SaveMemberDeps holds dependencies for SaveMember.
type SaveMemberDeps struct {
	MemberStore  MemberStoreForSave
	TrainerStore TrainerStoreForSave
}

// ErrUnknownTrainer is returned when trainer_id does not reference an existing trainer.
var ErrUnknownTrainer = errors.New("trainer_id does not match a trainer")

// ExecuteSaveMember derives the expiry date, validates and persists a member.
// Recording the membership fee as income is left to the caller.
// PRE: input.Member carries at least name, phone, plan type and start date
// POST: Member persisted with ID and derived Status set
func ExecuteSaveMember(ctx context.Context, input SaveMemberInput, deps SaveMemberDeps) (member.Member, error) {
	m := input.Member
	if err := m.FillExpiry(); err != nil {
		return member.Member{}, err
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}
	if m.TrainerID != nil {
		if _, err := deps.TrainerStore.GetByID(ctx, *m.TrainerID); err != nil {
			return member.Member{}, fmt.Errorf("%w: %v", ErrUnknownTrainer, err)
		}
	}

	event := "updated"
	if m.ID == 0 {
		event = "registered"
	}
	if err := deps.MemberStore.Save(ctx, &m); err != nil {
		return member.Member{}, err
	}
	slog.Info("member_event", "event", event, "member_id", m.ID, "expiry", m.ExpiryDate)
	return m, nil
}
