package scheduling

// Slots generates the ordered candidate start times for a service of the
// given duration inside a window: back-to-back, starting at the window
// start, while the whole slot still fits (start+duration <= end). The result
// is deterministic and strictly increasing; it is empty when the duration
// does not fit the window at all, or is not positive.
func Slots(w Window, durationMinutes int) []TimeOfDay {
	if durationMinutes <= 0 {
		return nil
	}
	var slots []TimeOfDay
	for start := w.Start; start.Add(durationMinutes) <= w.End; start = start.Add(durationMinutes) {
		slots = append(slots, start)
	}
	return slots
}

// Strings formats slot start times as "HH:MM" for transport.
func Strings(slots []TimeOfDay) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}
