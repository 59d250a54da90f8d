package reminder

import (
	"strings"
	"time"
)

// DayMask is a bit-set over the seven weekdays.
//
// The bit layout is a persisted format (the store writes the raw byte):
// bit0=Sunday .. bit6=Saturday, bit7 unused. Do not reorder.
type DayMask uint8

const (
	Sunday DayMask = 1 << iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const (
	// Weekdays covers Monday through Friday.
	Weekdays = Monday | Tuesday | Wednesday | Thursday | Friday
	// Weekend covers Saturday and Sunday.
	Weekend = Saturday | Sunday

	allDays = Weekdays | Weekend
)

// MaskFor returns the single-day mask for a weekday.
// time.Sunday is 0, which lines up with bit0.
func MaskFor(d time.Weekday) DayMask {
	return DayMask(1) << uint(d)
}

// Has reports whether the weekday's bit is set.
func (m DayMask) Has(d time.Weekday) bool {
	return m&MaskFor(d) != 0
}

// IsZero reports whether no weekday bit is set. A zero mask never fires and
// is rejected at construction time.
func (m DayMask) IsZero() bool {
	return m&allDays == 0
}

var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// String renders the mask as space-joined weekday names in calendar order,
// e.g. "Monday Wednesday".
func (m DayMask) String() string {
	var days []string
	for i := 0; i < 7; i++ {
		if m&(DayMask(1)<<uint(i)) != 0 {
			days = append(days, dayNames[i])
		}
	}
	return strings.Join(days, " ")
}

// DayFlags is the input-layer form of a mask: one boolean per weekday plus
// the two convenience aggregates. Weekday and Weekend OR their constituent
// bits into the result; they are sugar, not separate states.
type DayFlags struct {
	Sunday    bool
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool

	Weekday bool
	Weekend bool
}

// Mask folds the flags into a DayMask.
func (f DayFlags) Mask() DayMask {
	var m DayMask
	if f.Sunday {
		m |= Sunday
	}
	if f.Monday {
		m |= Monday
	}
	if f.Tuesday {
		m |= Tuesday
	}
	if f.Wednesday {
		m |= Wednesday
	}
	if f.Thursday {
		m |= Thursday
	}
	if f.Friday {
		m |= Friday
	}
	if f.Saturday {
		m |= Saturday
	}
	if f.Weekday {
		m |= Weekdays
	}
	if f.Weekend {
		m |= Weekend
	}
	return m
}
