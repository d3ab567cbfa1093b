package orchestrators

import (
	"context"
	"time"

	"gymdesk/internal/domain/message"
)

// MessageStoreForPost defines the chat store interface needed by PostMessage.
type MessageStoreForPost interface {
	Create(ctx context.Context, value *message.Message) error
}

// MessagePublisher pushes a stored message to live listeners of its thread.
type MessagePublisher interface {
	Publish(msg message.Message)
}

// PostMessageInput carries input for the post-message orchestrator.
type PostMessageInput struct {
	MemberID int64
	Sender   string // set by the caller from the session role, never from the request body
	Body     string
}

// PostMessageDeps holds dependencies for PostMessage.
type PostMessageDeps struct {
	Members   MemberLookup
	Store     MessageStoreForPost
	Publisher MessagePublisher // optional: nil skips live delivery
	Now       func() time.Time
}

// ExecutePostMessage appends a message to a member's thread and notifies live listeners.
// PRE: input.Sender is owner or member
// POST: Message persisted with ID and CreatedAt; published when a publisher is configured
func ExecutePostMessage(ctx context.Context, input PostMessageInput, deps PostMessageDeps) (message.Message, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	msg := message.Message{
		MemberID:  input.MemberID,
		Sender:    input.Sender,
		Body:      input.Body,
		CreatedAt: now().UTC(),
	}
	if err := msg.Validate(); err != nil {
		return message.Message{}, err
	}
	if _, err := deps.Members.GetByID(ctx, input.MemberID); err != nil {
		return message.Message{}, err
	}
	if err := deps.Store.Create(ctx, &msg); err != nil {
		return message.Message{}, err
	}
	if deps.Publisher != nil {
		deps.Publisher.Publish(msg)
	}
	return msg, nil
}
