package notify

import (
	"context"
	"time"

	"nudge/pkg/logx"
)

// CriticalNow surfaces a process-level failure through the same channel as
// reminders, best-effort. Used by the command layer when a command dies, so
// the human learns about scheduler failures even without a terminal attached.
func CriticalNow(title string, err error) {
	d := NewNotifySend(Config{}, logx.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = d.Dispatch(ctx, Notification{
		Title:   title,
		Body:    err.Error(),
		Urgency: Critical,
	})
}
