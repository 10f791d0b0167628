package repository

import (
	"context"
	"time"

	"github.com/odysseylabs/odyssey/internal/domain/calendar"
	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/domain/nudge"
)

// HydrationRepository persists ledger days and the hydration window.
type HydrationRepository interface {
	SaveDay(ctx context.Context, state hydration.State) error
	LoadDay(ctx context.Context, dateKey string) (*hydration.State, error)
	SaveWindow(ctx context.Context, w hydration.Window) error
	LoadWindow(ctx context.Context) (*hydration.Window, error)
}

// CalendarRepository provides read-only window queries over events. Event
// CRUD is owned by an external collaborator.
type CalendarRepository interface {
	EventsOverlapping(ctx context.Context, start, end time.Time) ([]calendar.Event, error)
}

// NudgeRepository persists the 7-day intervention history.
type NudgeRepository interface {
	Append(ctx context.Context, rec nudge.Record) error
	Prune(ctx context.Context, cutoff time.Time) error
	ListSince(ctx context.Context, since time.Time) ([]nudge.Record, error)
}
