package calendar

import "time"

// defaultDuration is assumed for events stored without an explicit end.
const defaultDuration = 30 * time.Minute

// Event is an externally owned calendar entry. The core only ever reads
// events overlapping a query window.
type Event struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"`
	AllDay    bool       `json:"all_day"`
	Category  string     `json:"category,omitempty"`
	Completed bool       `json:"completed"`
}

// EffectiveEnd derives the event end when none is stored: all-day events run
// a full day, others 30 minutes. The result is never before Start.
func (e Event) EffectiveEnd() time.Time {
	if e.End != nil && !e.End.Before(e.Start) {
		return *e.End
	}
	if e.AllDay {
		return e.Start.Add(24 * time.Hour)
	}
	return e.Start.Add(defaultDuration)
}

// Overlaps reports whether the event intersects [start, end).
func (e Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && e.EffectiveEnd().After(start)
}
