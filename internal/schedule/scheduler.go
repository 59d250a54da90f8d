package schedule

import (
	"context"
	"fmt"
	"time"

	"nudge/internal/notify"
	"nudge/internal/reminder"
	"nudge/pkg/logx"
)

// Source lists the persisted reminders. The sqlite store implements it; tests
// substitute a stub.
type Source interface {
	FindAll(ctx context.Context) ([]reminder.Reminder, error)
}

// Scheduler owns the live set of schedule items. It is not safe for
// concurrent use; the Runner drives it from a single goroutine.
type Scheduler struct {
	source   Source
	notifier notify.Notifier
	log      logx.Logger

	// items keeps store order for stable display; known indexes identities.
	items []*Item
	known map[int64]struct{}

	// unscheduled holds the last warning per rule that could not be
	// scheduled, so a rule stuck in a clock-shift window warns once per
	// distinct error instead of on every reconcile.
	unscheduled map[int64]string

	history []Fired
}

// Fired records one delivered (or attempted) occurrence, for diagnostics.
type Fired struct {
	ID    int64
	Title string
	At    time.Time
	Err   string
}

const historySize = 100

// New loads every reminder from the source and builds one item per rule
// against now. The returned count of scheduled items feeds operator output.
//
// A rule whose next occurrence cannot be computed (clock-shift window) is
// still tracked: it joins the live set on a later reconcile once the window
// passes.
func New(ctx context.Context, source Source, notifier notify.Notifier, log logx.Logger, now time.Time) (*Scheduler, int, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Scheduler{
		source:      source,
		notifier:    notifier,
		log:         log,
		known:       make(map[int64]struct{}),
		unscheduled: make(map[int64]string),
	}

	rules, err := source.FindAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("initial schedule: %w", err)
	}
	for _, r := range rules {
		if err := s.track(r, now); err != nil {
			s.warnUnscheduled(r, err)
		}
	}
	return s, len(s.items), nil
}

func (s *Scheduler) warnUnscheduled(r reminder.Reminder, err error) {
	msg := err.Error()
	if s.unscheduled[r.ID] == msg {
		return
	}
	s.unscheduled[r.ID] = msg
	s.log.Warn("could not schedule reminder",
		logx.Int64("id", r.ID), logx.String("title", r.Title), logx.Err(err))
}

func (s *Scheduler) track(r reminder.Reminder, now time.Time) error {
	it, err := NewItem(r, now)
	if err != nil {
		return err
	}
	s.items = append(s.items, it)
	s.known[r.ID] = struct{}{}
	delete(s.unscheduled, r.ID)
	s.log.Debug("reminder scheduled",
		logx.Int64("id", r.ID),
		logx.String("title", r.Title),
		logx.Time("next", it.Next),
	)
	return nil
}

// Reconcile re-reads the source and folds newly added reminders into the live
// set, computing their first occurrence against now. Each new item gets one
// lifecycle notification so the human sees that the running daemon picked it
// up. Rules deleted from the store are NOT removed here; see the package
// limitation note on Tick.
func (s *Scheduler) Reconcile(ctx context.Context, now time.Time) error {
	rules, err := s.source.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	for _, r := range rules {
		if _, ok := s.known[r.ID]; ok {
			continue
		}
		if err := s.track(r, now); err != nil {
			s.warnUnscheduled(r, err)
			continue
		}
		it := s.items[len(s.items)-1]
		if err := s.notifier.Dispatch(ctx, notify.Notification{
			Title: "New reminder scheduled",
			Body: fmt.Sprintf("%s | %s at %s",
				r.Title, r.Days, it.Next.Format("2006-01-02 15:04")),
			Urgency: notify.Normal,
		}); err != nil {
			s.log.Warn("lifecycle notification failed", logx.Err(err))
		}
	}
	return nil
}

// Tick is one scheduler step: reconcile, then evaluate every item for
// due-ness in collection order. Per-item failures are isolated; one broken
// item never stops the rest of the tick. A reconcile failure is logged and
// the already-known items still fire.
//
// Known limitation: reconciliation only adds. A reminder removed from the
// store while the daemon runs keeps firing until restart.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	if err := s.Reconcile(ctx, now); err != nil {
		s.log.Warn("reconcile failed, firing known items", logx.Err(err))
	}
	for _, it := range s.items {
		fired, err := it.AdvanceIfDue(ctx, now, s.notifier)
		if err != nil {
			s.log.Warn("reminder fire failed",
				logx.Int64("id", it.Reminder.ID),
				logx.String("title", it.Reminder.Title),
				logx.Err(err),
			)
		}
		if fired {
			s.record(it, now, err)
		}
	}
}

func (s *Scheduler) record(it *Item, now time.Time, err error) {
	f := Fired{ID: it.Reminder.ID, Title: it.Reminder.Title, At: now}
	if err != nil {
		f.Err = err.Error()
	}
	s.history = append(s.history, f)
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
	s.log.Info("reminder fired",
		logx.Int64("id", it.Reminder.ID),
		logx.String("title", it.Reminder.Title),
		logx.Time("next", it.Next),
	)
}

// Len reports the number of live items.
func (s *Scheduler) Len() int { return len(s.items) }

// History returns a copy of the recent fire records.
func (s *Scheduler) History() []Fired {
	out := make([]Fired, len(s.history))
	copy(out, s.history)
	return out
}
