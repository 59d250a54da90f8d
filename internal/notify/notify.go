// Package notify delivers desktop notifications. The scheduler only sees the
// Notifier interface; tests substitute a recording fake.
package notify

import (
	"context"
	"errors"
)

// Urgency selects the desktop notification urgency level.
type Urgency int

const (
	Normal Urgency = iota
	Critical
)

func (u Urgency) String() string {
	if u == Critical {
		return "critical"
	}
	return "normal"
}

// Notification is one message to surface to the human.
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
}

// Notifier dispatches a notification. Dispatch must return within a bounded
// time: the scheduler calls it from its poll loop and never retries.
type Notifier interface {
	Dispatch(ctx context.Context, n Notification) error
}

// ErrRateLimited reports a dispatch dropped by the burst limiter. The
// occurrence is consumed; only the delivery was skipped.
var ErrRateLimited = errors.New("notification rate limit exceeded")
