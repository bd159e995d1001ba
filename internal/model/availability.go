package model

// ClosedReason distinguishes, for the UI only, why a date has no
// availability. Both values mean the same thing to callers: no slots.
type ClosedReason string

const (
	ClosedReasonDayOff  ClosedReason = "day_off"
	ClosedReasonNoHours ClosedReason = "no_working_hours"
)

// Availability is the answer to "what slots are free for service S on date
// D?". TimeSlots holds ordered "HH:MM" start times; it is empty when the
// date is closed or fully booked.
type Availability struct {
	Open      bool         `json:"open"`
	Reason    ClosedReason `json:"reason,omitempty"`
	TimeSlots []string     `json:"time_slots"`
}
