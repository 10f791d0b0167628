package calendar

import (
	"context"
	"time"
)

// Repository provides read-only time-bounded event lookup.
type Repository interface {
	EventsOverlapping(ctx context.Context, start, end time.Time) ([]Event, error)
}
