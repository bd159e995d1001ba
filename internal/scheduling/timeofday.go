// Package scheduling holds the pure core of the booking engine: calendar
// rules, slot generation and conflict detection. Nothing here touches the
// database or the clock; callers load state and pass it in.
package scheduling

import (
	"fmt"
)

// TimeOfDay is a minute-precision time within a day, counted as minutes
// since midnight. The zero value is midnight.
type TimeOfDay int

// ParseTimeOfDay parses a strict "HH:MM" string (00:00 .. 23:59).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	for i := 0; i < len(s); i++ {
		if i == 2 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// String renders the time back as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}
