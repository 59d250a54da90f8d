package reminder

import (
	"fmt"
	"time"
)

// NextOccurrence returns the smallest instant >= now whose weekday bit is set
// in the reminder's mask and whose time-of-day equals the reminder's
// hour:minute. When now itself is such an instant it is returned unchanged,
// which makes the computation idempotent: feeding the result back in yields
// the same result.
//
// Clock-shift edge cases are propagated, not resolved: a candidate wall time
// skipped by a forward shift fails with ErrNoLocalTime, one repeated by a
// backward shift fails with ErrAmbiguousLocalTime. Callers skip the affected
// item for that tick.
func (r Reminder) NextOccurrence(now time.Time) (time.Time, error) {
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return time.Time{}, fmt.Errorf("%02d:%02d: %w", r.Hour, r.Minute, ErrInvalidTimeOfDay)
	}
	if r.Days.IsZero() {
		return time.Time{}, ErrEmptyDayMask
	}

	loc := now.Location()
	year, month, day := now.Date()

	// A non-empty mask matches within one full week; offsets past today are
	// always >= now, so 8 calendar days cover every case.
	for i := 0; i < 8; i++ {
		// Noon anchor: immune to clock shifts, so the weekday is reliable
		// even on dates where the rule's own wall time is not.
		anchor := time.Date(year, month, day+i, 12, 0, 0, 0, loc)
		if !r.Days.Has(anchor.Weekday()) {
			continue
		}
		candidate := time.Date(year, month, day+i, r.Hour, r.Minute, 0, 0, loc)
		if candidate.Before(now) {
			continue
		}
		if candidate.Hour() != r.Hour || candidate.Minute() != r.Minute {
			// Normalized away: this slot's wall time does not exist on this
			// date (forward clock shift).
			return time.Time{}, fmt.Errorf("%s %s: %w",
				anchor.Format("2006-01-02"), r.Clock(), ErrNoLocalTime)
		}
		if repeatedWallTime(candidate) {
			return time.Time{}, fmt.Errorf("%s %s: %w",
				candidate.Format("2006-01-02"), r.Clock(), ErrAmbiguousLocalTime)
		}
		return candidate, nil
	}

	// Unreachable with a non-empty mask; guarded above.
	return time.Time{}, fmt.Errorf("mask %07b never matched: %w", r.Days, ErrEmptyDayMask)
}

// repeatedWallTime reports whether t's wall clock occurs a second time within
// an hour of t, which happens inside the window repeated by a backward clock
// shift.
func repeatedWallTime(t time.Time) bool {
	h, m := t.Hour(), t.Minute()
	for _, d := range []time.Duration{-time.Hour, time.Hour} {
		u := t.Add(d)
		if u.Hour() == h && u.Minute() == m {
			return true
		}
	}
	return false
}
