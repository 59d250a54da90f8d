// Package schedule is the scheduling engine: per-reminder next-fire tracking,
// store reconciliation, and the poll loop that drives firing.
//
// Time is always injected. Nothing in this package reads the wall clock
// except the Runner, which captures one "now" per tick and passes it down.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nudge/internal/notify"
	"nudge/internal/reminder"
)

// Item pairs a reminder with its cached next-fire instant.
//
// Invariant: Next is never earlier than the now used at the last evaluation,
// and while it holds a real occurrence it is the smallest such instant whose
// weekday and time-of-day match the reminder.
type Item struct {
	Reminder reminder.Reminder
	Next     time.Time

	// stale marks an item whose post-fire recompute failed (clock-shift
	// window). A stale item never dispatches; each due evaluation only
	// retries the recompute until the window passes.
	stale bool
}

// NewItem computes the initial next-fire instant against now.
func NewItem(r reminder.Reminder, now time.Time) (*Item, error) {
	next, err := r.NextOccurrence(now)
	if err != nil {
		return nil, err
	}
	return &Item{Reminder: r, Next: next}, nil
}

// AdvanceIfDue fires the reminder when now is strictly past Next, then
// recomputes Next against now. Because the recomputed Next is never earlier
// than now, a single due occurrence fires exactly once however often the
// loop samples the clock.
//
// The dispatch attempt consumes the occurrence: a delivery failure is
// reported but Next still advances, so a broken notifier is not hammered
// every poll interval. A failed recompute parks the item instead of leaving
// the consumed occurrence due.
func (it *Item) AdvanceIfDue(ctx context.Context, now time.Time, n notify.Notifier) (bool, error) {
	if !now.After(it.Next) {
		return false, nil
	}
	if it.stale {
		next, err := it.Reminder.NextOccurrence(now)
		if err != nil {
			// Still inside the window. Move the gate forward and stay
			// parked; the failure was reported when the item went stale.
			it.Next = now
			return false, nil
		}
		it.stale = false
		it.Next = next
		return false, nil
	}

	derr := n.Dispatch(ctx, notify.Notification{
		Title:   it.Reminder.Title,
		Body:    fmt.Sprintf("%s \n\n%s", it.Reminder.Message, now.Format("2006-01-02 15:04:05")),
		Urgency: notify.Normal,
	})

	next, err := it.Reminder.NextOccurrence(now)
	if err != nil {
		// Clock-shift window: park the item so the occurrence just
		// dispatched cannot repeat while the window lasts.
		it.stale = true
		it.Next = now
		return true, errors.Join(derr, err)
	}
	it.Next = next
	return true, derr
}
