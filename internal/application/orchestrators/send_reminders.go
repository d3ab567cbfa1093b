package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymdesk/internal/adapters/email"
	memberStore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/domain/member"
)

// MaxReminderDays bounds how far ahead reminders may look.
const MaxReminderDays = 60

// ErrInvalidReminderWindow is returned for a window outside 0..MaxReminderDays.
var ErrInvalidReminderWindow = errors.New("days must be between 0 and 60")

// reminderMarkdown leaves out raw HTML blocks. Member-supplied text is escaped by
// escapeMarkdown before it reaches the renderer.
var reminderMarkdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// MemberStoreForReminders defines the member store interface needed by SendReminders.
type MemberStoreForReminders interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]member.Member, error)
}

// SendRemindersInput carries input for the reminder orchestrator.
type SendRemindersInput struct {
	Days    int // members expiring within this many days of Now, inclusive
	Now     time.Time
	GymName string
	ReplyTo string // optional
}

// SendRemindersDeps holds dependencies for SendReminders.
type SendRemindersDeps struct {
	MemberStore MemberStoreForReminders
	Sender      email.Sender
}

// SendRemindersResult summarises one reminder run.
type SendRemindersResult struct {
	Expiring       int `json:"expiring"`
	Sent           int `json:"sent"`
	SkippedNoEmail int `json:"skipped_no_email"`
}

// ExecuteSendReminders emails every member whose membership expires within the window.
// Members without an email address are counted and skipped.
// PRE: 0 <= input.Days <= MaxReminderDays
// POST: One email per expiring member with an address, sent as a single batch
func ExecuteSendReminders(ctx context.Context, input SendRemindersInput, deps SendRemindersDeps) (SendRemindersResult, error) {
	if input.Days < 0 || input.Days > MaxReminderDays {
		return SendRemindersResult{}, ErrInvalidReminderWindow
	}
	today := input.Now.Format(member.DateLayout)
	until := input.Now.AddDate(0, 0, input.Days).Format(member.DateLayout)

	members, err := deps.MemberStore.List(ctx, memberStore.ListFilter{Today: today, ExpiringBy: until})
	if err != nil {
		return SendRemindersResult{}, err
	}

	result := SendRemindersResult{Expiring: len(members)}
	var reqs []email.SendRequest
	for _, m := range members {
		if m.Email == "" {
			result.SkippedNoEmail++
			continue
		}
		md := reminderBody(escapeMarkdown(m.Name), escapeMarkdown(m.PlanType), escapeMarkdown(input.GymName), m.ExpiryDate)
		var html bytes.Buffer
		if err := reminderMarkdown.Convert([]byte(md), &html); err != nil {
			return result, fmt.Errorf("render reminder for member %d: %w", m.ID, err)
		}
		reqs = append(reqs, email.SendRequest{
			To:      []string{m.Email},
			Subject: fmt.Sprintf("Your %s membership expires on %s", input.GymName, m.ExpiryDate),
			HTML:    html.String(),
			Text:    reminderBody(m.Name, m.PlanType, input.GymName, m.ExpiryDate),
			ReplyTo: input.ReplyTo,
			Tags:    map[string]string{"kind": "expiry_reminder"},
		})
	}
	if len(reqs) == 0 {
		return result, nil
	}

	sent, err := deps.Sender.SendBatch(ctx, reqs)
	result.Sent = len(sent)
	if err != nil {
		return result, err
	}
	slog.Info("reminder_event", "event", "sent", "expiring", result.Expiring, "sent", result.Sent, "skipped", result.SkippedNoEmail)
	return result, nil
}

func reminderBody(name, plan, gym, expiry string) string {
	return fmt.Sprintf(`Hi %s,

Your **%s** plan at %s ends on **%s**.
Renew at the front desk to keep training without a break.

See you at the gym!`, name, plan, gym, expiry)
}

// escapeMarkdown backslash-escapes every ASCII punctuation character so text renders literally.
// Newlines become spaces so a value cannot start a new block.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r < 128 && (unicode.IsPunct(r) || unicode.IsSymbol(r)):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
