package calendar

import (
	"context"
	"fmt"
	"time"
)

// Query is a thin read-only service over the event store.
type Query struct {
	repo Repository
}

// NewQuery creates a calendar query service.
func NewQuery(repo Repository) *Query {
	return &Query{repo: repo}
}

// EventsOverlapping returns events intersecting [start, end), ordered by
// start time.
func (q *Query) EventsOverlapping(ctx context.Context, start, end time.Time) ([]Event, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid query window: end %v before start %v", end, start)
	}
	events, err := q.repo.EventsOverlapping(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying calendar events: %w", err)
	}
	return events, nil
}
