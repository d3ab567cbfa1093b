package client

import (
	"log/slog"
	"time"
)

// Notice is a user-facing message about a background failure.
type Notice struct {
	Kind    Kind
	Op      string
	Message string
	At      time.Time
}

// Notifier receives failures of optimistic mutations. Notify must not block.
type Notifier interface {
	Notify(n Notice)
}

// ChanNotifier delivers notices on a buffered channel and drops them when it is full.
type ChanNotifier struct {
	ch chan Notice
}

// NewChanNotifier creates a notifier holding up to size undelivered notices.
func NewChanNotifier(size int) *ChanNotifier {
	if size < 1 {
		size = 1
	}
	return &ChanNotifier{ch: make(chan Notice, size)}
}

func (n *ChanNotifier) Notify(notice Notice) {
	select {
	case n.ch <- notice:
	default:
		slog.Warn("notice_dropped", "kind", notice.Kind, "op", notice.Op, "message", notice.Message)
	}
}

// C is the receive side of the notifier.
func (n *ChanNotifier) C() <-chan Notice {
	return n.ch
}

// LogNotifier writes notices to slog. It is the default when none is given.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	slog.Error("mutation_failed", "kind", n.Kind, "op", n.Op, "error", n.Message)
}
