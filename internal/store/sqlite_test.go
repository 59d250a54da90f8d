package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"nudge/internal/reminder"
	"nudge/pkg/logx"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{Path: filepath.Join(t.TempDir(), "nudge.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestInsertFindAllRoundTrip(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.Insert(ctx, "standup", "join the call", "10:00", reminder.Monday|reminder.Wednesday)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == 0 {
		t.Fatal("Insert returned id 0")
	}

	list, err := st.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("FindAll returned %d reminders, want 1", len(list))
	}
	got := list[0]
	if got.ID != id || got.Title != "standup" || got.Message != "join the call" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got.Hour != 10 || got.Minute != 0 {
		t.Fatalf("time = %02d:%02d, want 10:00", got.Hour, got.Minute)
	}
	if got.Days != reminder.Monday|reminder.Wednesday {
		t.Fatalf("days = %08b", uint8(got.Days))
	}
}

func TestInsertValidates(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.Insert(ctx, "x", "y", "25:00", reminder.Monday); !errors.Is(err, reminder.ErrInvalidTimeOfDay) {
		t.Fatalf("bad clock: error = %v, want ErrInvalidTimeOfDay", err)
	}
	if _, err := st.Insert(ctx, "x", "y", "10:00", 0); !errors.Is(err, reminder.ErrEmptyDayMask) {
		t.Fatalf("empty mask: error = %v, want ErrEmptyDayMask", err)
	}
	list, err := st.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected inserts leaked %d rows", len(list))
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.Insert(ctx, "standup", "join the call", "10:00", reminder.Monday)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := st.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(ctx, id); err == nil {
		t.Fatal("deleting a missing id should fail")
	}
	list, err := st.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("FindAll returned %d reminders after delete", len(list))
	}
}

func TestFindAllOrderedByID(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		if _, err := st.Insert(ctx, title, "m", "08:00", reminder.Weekdays); err != nil {
			t.Fatalf("Insert %q: %v", title, err)
		}
	}
	list, err := st.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].ID <= list[i-1].ID {
			t.Fatalf("ids out of order: %d then %d", list[i-1].ID, list[i].ID)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nudge.db")
	ctx := context.Background()

	st, err := Open(Config{Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := st.Insert(ctx, "standup", "join the call", "10:00", reminder.Monday); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Second open runs the migration chain again; it must be a no-op.
	st, err = Open(Config{Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()
	list, err := st.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("FindAll after reopen returned %d reminders, want 1", len(list))
	}
}

func TestMaintain(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	if err := st.Maintain(context.Background()); err != nil {
		t.Fatalf("Maintain: %v", err)
	}
}
