package contextbus

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odysseylabs/odyssey/internal/domain/activity"
	"github.com/odysseylabs/odyssey/internal/domain/calendar"
	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/domain/nudge"
)

// calendarReach bounds the event window around now on both sides.
const calendarReach = 3 * time.Hour

// maxRecentActivity caps the activity entries carried for display; pacing
// always uses the full ledger.
const maxRecentActivity = 10

// LedgerReader is the ledger surface the builder needs.
type LedgerReader interface {
	LoadToday(ctx context.Context) (hydration.State, error)
	Window() hydration.Window
}

// CalendarReader is the calendar surface the builder needs.
type CalendarReader interface {
	EventsOverlapping(ctx context.Context, start, end time.Time) ([]calendar.Event, error)
}

// NudgeReader is the history surface the builder needs.
type NudgeReader interface {
	RecentNudges(ctx context.Context, since time.Time) ([]nudge.Record, error)
}

// ActivityReader is the stabilizer surface the builder needs.
type ActivityReader interface {
	Recent(now time.Time) []activity.Stable
}

// Builder composes the ledger, calendar, nudge history and stabilizer into
// atomic snapshots.
type Builder struct {
	ledger   LedgerReader
	calendar CalendarReader
	nudges   NudgeReader
	activity ActivityReader
}

// NewBuilder creates a snapshot builder.
func NewBuilder(ledger LedgerReader, cal CalendarReader, nudges NudgeReader, act ActivityReader) *Builder {
	return &Builder{ledger: ledger, calendar: cal, nudges: nudges, activity: act}
}

// Build assembles a snapshot for now. If any sub-read fails, the whole build
// fails and no partial snapshot is exposed. Building never mutates owned
// state.
func (b *Builder) Build(ctx context.Context, now time.Time) (Snapshot, error) {
	snap := Snapshot{
		Now:    now,
		Window: b.ledger.Window(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		state, err := b.ledger.LoadToday(gctx)
		if err != nil {
			return fmt.Errorf("reading hydration state: %w", err)
		}
		snap.Hydration = state
		return nil
	})

	g.Go(func() error {
		events, err := b.calendar.EventsOverlapping(gctx, now.Add(-calendarReach), now.Add(calendarReach))
		if err != nil {
			return fmt.Errorf("reading calendar window: %w", err)
		}
		snap.CalendarWindow = events
		return nil
	})

	g.Go(func() error {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		recs, err := b.nudges.RecentNudges(gctx, midnight)
		if err != nil {
			return fmt.Errorf("reading nudge history: %w", err)
		}
		snap.RecentNudges = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	recent := b.activity.Recent(now)
	if len(recent) > maxRecentActivity {
		recent = recent[len(recent)-maxRecentActivity:]
	}
	snap.RecentActivity = recent

	snap.Pacing = hydration.ComputePacing(snap.Hydration, snap.Window, now)
	return snap, nil
}
