// Package reminder holds the recurring-reminder domain: the weekday bit-mask,
// the reminder definition itself, and the next-occurrence computation.
//
// Everything here is pure: no wall-clock reads, no I/O. Callers inject "now".
package reminder

import (
	"fmt"
	"strconv"
	"strings"
)

// Reminder is one persisted recurring reminder. It is immutable after
// construction; edits happen only through the store (delete + re-add).
type Reminder struct {
	ID      int64
	Title   string
	Message string
	Hour    int
	Minute  int
	Days    DayMask
}

// New builds a Reminder, parsing and validating the "HH:MM" clock string.
// This is the sole parser of the stored time format: malformed input fails
// here, never later.
func New(id int64, title, message, clock string, days DayMask) (Reminder, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return Reminder{}, err
	}
	if days.IsZero() {
		return Reminder{}, ErrEmptyDayMask
	}
	return Reminder{
		ID:      id,
		Title:   title,
		Message: message,
		Hour:    hour,
		Minute:  minute,
		Days:    days,
	}, nil
}

// ParseClock parses "HH:MM" with both components numeric and in range.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%q: %w", s, ErrTimeParse)
	}
	hour, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, ErrTimeParse)
	}
	minute, err = strconv.Atoi(m)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, ErrTimeParse)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%02d:%02d: %w", hour, minute, ErrInvalidTimeOfDay)
	}
	return hour, minute, nil
}

// Clock renders the time-of-day back into the stored "HH:MM" form.
func (r Reminder) Clock() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// String is the one-line listing form.
func (r Reminder) String() string {
	return fmt.Sprintf("%d: %s | Runs on `%s` at %s", r.ID, r.Title, r.Days, r.Clock())
}
