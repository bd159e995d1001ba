package scheduling

import "sort"

// Interval is a half-open [Start, End) occupied span within a day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Overlaps is the half-open interval test: touching endpoints do not count
// as overlap, so a booking ending at 10:00 leaves the 10:00 slot free.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// ConflictIndex answers whether a candidate interval collides with any of a
// day's occupying bookings. Intervals are kept sorted by start so lookups
// can stop early; the day's slot count is small enough that this is already
// generous.
type ConflictIndex struct {
	intervals []Interval
}

func NewConflictIndex(intervals []Interval) *ConflictIndex {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return &ConflictIndex{intervals: sorted}
}

// Conflicts reports whether iv overlaps any indexed interval.
func (ci *ConflictIndex) Conflicts(iv Interval) bool {
	for _, b := range ci.intervals {
		if b.Start >= iv.End {
			break
		}
		if iv.Overlaps(b) {
			return true
		}
	}
	return false
}

// Free filters candidate slot starts, dropping every slot whose
// [start, start+duration) interval collides with an indexed booking.
func (ci *ConflictIndex) Free(slots []TimeOfDay, durationMinutes int) []TimeOfDay {
	free := make([]TimeOfDay, 0, len(slots))
	for _, s := range slots {
		if !ci.Conflicts(Interval{Start: s, End: s.Add(durationMinutes)}) {
			free = append(free, s)
		}
	}
	return free
}
