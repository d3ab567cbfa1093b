package message

import (
	"errors"
	"strings"
	"time"
)

// Sender values for a chat message.
const (
	SenderOwner  = "owner"
	SenderMember = "member"
)

// MaxLength bounds a single chat message.
const MaxLength = 2000

// Domain errors
var (
	ErrEmptyMemberID = errors.New("message thread (member_id) is required")
	ErrInvalidSender = errors.New("sender must be owner or member")
	ErrEmptyContent  = errors.New("message content cannot be empty")
	ErrTooLong       = errors.New("message cannot exceed 2000 characters")
)

// Message is one entry in the chat thread between the gym owner and a member.
// Each member has exactly one thread, keyed by MemberID. Rows are append-only.
type Message struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if m.MemberID <= 0 {
		return ErrEmptyMemberID
	}
	if m.Sender != SenderOwner && m.Sender != SenderMember {
		return ErrInvalidSender
	}
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyContent
	}
	if len(m.Body) > MaxLength {
		return ErrTooLong
	}
	if m.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// FromOwner returns true if the gym owner wrote the message.
// INVARIANT: Sender field is not mutated
func (m *Message) FromOwner() bool {
	return m.Sender == SenderOwner
}
