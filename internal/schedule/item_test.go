package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nudge/internal/notify"
	"nudge/internal/reminder"
)

// fakeNotifier records dispatches and can be told to fail.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	fail error
}

func (f *fakeNotifier) Dispatch(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.fail
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func mustReminder(t *testing.T, id int64, clock string, days reminder.DayMask) reminder.Reminder {
	t.Helper()
	r, err := reminder.New(id, "standup", "join the call", clock, days)
	if err != nil {
		t.Fatalf("reminder.New: %v", err)
	}
	return r
}

func TestNewItemComputesNext(t *testing.T) {
	t.Parallel()
	r := mustReminder(t, 1, "10:00", reminder.Wednesday)
	now := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC) // Wednesday

	it, err := NewItem(r, now)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if !it.Next.Equal(want) {
		t.Fatalf("Next = %v, want %v", it.Next, want)
	}
}

func TestAdvanceIfDueNotYet(t *testing.T) {
	t.Parallel()
	r := mustReminder(t, 1, "10:00", reminder.Wednesday)
	now := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)
	it, err := NewItem(r, now)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	n := &fakeNotifier{}
	// Exactly at the occurrence: firing is strict (now > next), so this is
	// still a no-op; the next sample past it fires.
	for _, probe := range []time.Time{now, it.Next} {
		fired, err := it.AdvanceIfDue(context.Background(), probe, n)
		if err != nil {
			t.Fatalf("AdvanceIfDue(%v): %v", probe, err)
		}
		if fired {
			t.Fatalf("AdvanceIfDue(%v) fired early", probe)
		}
	}
	if n.count() != 0 {
		t.Fatalf("dispatched %d notifications, want 0", n.count())
	}
}

func TestAdvanceIfDueFiresOnce(t *testing.T) {
	t.Parallel()
	r := mustReminder(t, 1, "10:00", reminder.Wednesday)
	start := time.Date(2025, 1, 1, 9, 59, 0, 0, time.UTC)
	it, err := NewItem(r, start)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	n := &fakeNotifier{}
	// Simulate the poll grid sampling every 100ms past the occurrence.
	now := time.Date(2025, 1, 1, 10, 0, 0, 50_000_000, time.UTC)
	firedCount := 0
	for i := 0; i < 20; i++ {
		fired, err := it.AdvanceIfDue(context.Background(), now, n)
		if err != nil {
			t.Fatalf("AdvanceIfDue: %v", err)
		}
		if fired {
			firedCount++
		}
		now = now.Add(100 * time.Millisecond)
	}
	if firedCount != 1 {
		t.Fatalf("fired %d times for one occurrence, want 1", firedCount)
	}
	if n.count() != 1 {
		t.Fatalf("dispatched %d notifications, want 1", n.count())
	}
	if !it.Next.After(now) {
		t.Fatalf("Next = %v did not advance past now = %v", it.Next, now)
	}
	// Single-day mask: the recomputed slot is exactly one week out.
	want := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	if !it.Next.Equal(want) {
		t.Fatalf("Next = %v, want %v", it.Next, want)
	}
}

func TestAdvanceIfDueDispatchFailureStillAdvances(t *testing.T) {
	t.Parallel()
	r := mustReminder(t, 1, "10:00", reminder.Wednesday)
	it, err := NewItem(r, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	boom := errors.New("notify-send: broken pipe")
	n := &fakeNotifier{fail: boom}
	now := time.Date(2025, 1, 1, 10, 0, 1, 0, time.UTC)

	fired, err := it.AdvanceIfDue(context.Background(), now, n)
	if !fired {
		t.Fatal("expected a fire attempt")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want dispatch failure", err)
	}
	if !it.Next.After(now) {
		t.Fatal("failed dispatch must still consume the occurrence")
	}

	// The very next tick must not refire the same occurrence.
	fired, _ = it.AdvanceIfDue(context.Background(), now.Add(100*time.Millisecond), n)
	if fired {
		t.Fatal("refired the same occurrence after a dispatch failure")
	}
}

func TestAdvanceIfDueRecomputeFailureParksItem(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// US DST ended 2025-11-02; 01:30 occurred twice that day. A daily 01:30
	// rule firing the day before recomputes straight into that window.
	r := mustReminder(t, 1, "01:30", reminder.Weekdays|reminder.Weekend)
	it, err := NewItem(r, time.Date(2025, 11, 1, 1, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	n := &fakeNotifier{}
	now := time.Date(2025, 11, 1, 1, 30, 1, 0, loc)
	fired, err := it.AdvanceIfDue(context.Background(), now, n)
	if !fired {
		t.Fatal("expected a fire")
	}
	if !errors.Is(err, reminder.ErrAmbiguousLocalTime) {
		t.Fatalf("error = %v, want ErrAmbiguousLocalTime", err)
	}

	// The consumed occurrence must not repeat while the window lasts.
	for i := 0; i < 10; i++ {
		now = now.Add(100 * time.Millisecond)
		fired, err := it.AdvanceIfDue(context.Background(), now, n)
		if err != nil {
			t.Fatalf("AdvanceIfDue: %v", err)
		}
		if fired {
			t.Fatal("refired a consumed occurrence during the clock-shift window")
		}
	}
	if n.count() != 1 {
		t.Fatalf("dispatched %d notifications, want 1", n.count())
	}

	// Past the window the recompute succeeds without a dispatch, and the
	// item resumes firing at the following occurrence.
	after := time.Date(2025, 11, 2, 3, 0, 0, 0, loc)
	if fired, err := it.AdvanceIfDue(context.Background(), after, n); err != nil || fired {
		t.Fatalf("recovery tick: fired=%v err=%v", fired, err)
	}
	want := time.Date(2025, 11, 3, 1, 30, 0, 0, loc)
	if !it.Next.Equal(want) {
		t.Fatalf("Next = %v, want %v", it.Next, want)
	}
	fired, err = it.AdvanceIfDue(context.Background(), want.Add(time.Second), n)
	if err != nil || !fired {
		t.Fatalf("post-window fire: fired=%v err=%v", fired, err)
	}
	if n.count() != 2 {
		t.Fatalf("dispatched %d notifications, want 2", n.count())
	}
}

func TestAdvanceIfDueCarriesTimestampInBody(t *testing.T) {
	t.Parallel()
	r := mustReminder(t, 1, "10:00", reminder.Wednesday)
	it, err := NewItem(r, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	n := &fakeNotifier{}
	now := time.Date(2025, 1, 1, 10, 0, 1, 0, time.UTC)
	if _, err := it.AdvanceIfDue(context.Background(), now, n); err != nil {
		t.Fatalf("AdvanceIfDue: %v", err)
	}
	if n.count() != 1 {
		t.Fatalf("dispatched %d, want 1", n.count())
	}
	got := n.sent[0]
	if got.Title != "standup" {
		t.Fatalf("title = %q", got.Title)
	}
	want := "join the call \n\n2025-01-01 10:00:01"
	if got.Body != want {
		t.Fatalf("body = %q, want %q", got.Body, want)
	}
	if got.Urgency != notify.Normal {
		t.Fatalf("urgency = %v, want normal", got.Urgency)
	}
}
