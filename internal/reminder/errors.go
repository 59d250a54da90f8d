package reminder

import "errors"

var (
	// ErrTimeParse reports a malformed "HH:MM" string at construction.
	ErrTimeParse = errors.New("could not parse time, expected HH:MM")

	// ErrInvalidTimeOfDay reports an hour or minute outside its valid range.
	// Construction validates both, so seeing this later is an invariant
	// violation, not a user error.
	ErrInvalidTimeOfDay = errors.New("hour or minute out of range")

	// ErrEmptyDayMask reports a mask with no weekday bits set. Such a rule
	// would never fire, so construction rejects it.
	ErrEmptyDayMask = errors.New("no days selected")

	// ErrNoLocalTime reports a wall-clock time that does not exist on the
	// candidate date (skipped by a clock shift).
	ErrNoLocalTime = errors.New("local time does not exist")

	// ErrAmbiguousLocalTime reports a wall-clock time that occurs twice on
	// the candidate date (repeated by a clock shift).
	ErrAmbiguousLocalTime = errors.New("local time is ambiguous")
)
