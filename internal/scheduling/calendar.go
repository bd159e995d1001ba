package scheduling

import (
	"time"

	"github.com/agendafacil/booking-api/internal/model"
)

// Window is a half-open [Start, End) working-hours window within a day.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Span returns the window length in minutes.
func (w Window) Span() int {
	return int(w.End - w.Start)
}

// DayStatus is the calendar's verdict for a single date.
type DayStatus struct {
	Open   bool
	Reason model.ClosedReason // set when Open is false
	Window Window             // valid when Open is true
}

// Calendar answers "is this date open, and during which window?". It is a
// snapshot of the weekly working hours plus day-off exceptions, built once
// per query from stored rows.
type Calendar struct {
	windows map[int]Window      // weekday -> active window
	dayOffs map[string]struct{} // "2006-01-02" -> closed
}

// NewCalendar builds a calendar snapshot. Only active working-hours rows
// contribute; rows whose times do not parse as "HH:MM", or whose start is
// not before their end, are treated as absent so that a corrupt row fails
// closed instead of crashing availability.
func NewCalendar(hours []model.WorkingHours, dayOffs []model.DayOff) *Calendar {
	c := &Calendar{
		windows: make(map[int]Window, len(hours)),
		dayOffs: make(map[string]struct{}, len(dayOffs)),
	}
	for _, wh := range hours {
		if !wh.Active || wh.Weekday < 0 || wh.Weekday > 6 {
			continue
		}
		start, err := ParseTimeOfDay(wh.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseTimeOfDay(wh.EndTime)
		if err != nil {
			continue
		}
		if start >= end {
			continue
		}
		c.windows[wh.Weekday] = Window{Start: start, End: end}
	}
	for _, d := range dayOffs {
		c.dayOffs[d.Date.Format(time.DateOnly)] = struct{}{}
	}
	return c
}

// Resolve decides whether date is bookable. A day off wins over weekday
// rules; otherwise the weekday's active window applies, and a weekday with
// no usable window is closed.
func (c *Calendar) Resolve(date time.Time) DayStatus {
	if _, off := c.dayOffs[date.Format(time.DateOnly)]; off {
		return DayStatus{Open: false, Reason: model.ClosedReasonDayOff}
	}
	w, ok := c.windows[int(date.Weekday())]
	if !ok {
		return DayStatus{Open: false, Reason: model.ClosedReasonNoHours}
	}
	return DayStatus{Open: true, Window: w}
}
