package nudge

import "time"

// Retention bounds how long intervention history is kept. Records older than
// this are pruned on every write.
const Retention = 7 * 24 * time.Hour

// Record is one delivered intervention.
type Record struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
