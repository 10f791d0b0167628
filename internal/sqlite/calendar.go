package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/odysseylabs/odyssey/internal/domain/calendar"
)

// CalendarRepository implements repository.CalendarRepository for SQLite
type CalendarRepository struct {
	db *DB
}

// NewCalendarRepository creates a new CalendarRepository
func NewCalendarRepository(db *DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// EventsOverlapping returns events intersecting [start, end), ordered by
// start time. End derivation for events stored without an explicit end
// happens in the domain model, so candidates are over-fetched by a day and
// filtered here.
func (r *CalendarRepository) EventsOverlapping(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, start_at, end_at, all_day, category, completed
		FROM calendar_events
		WHERE start_at < ? AND start_at > ?
		ORDER BY start_at ASC
	`, end, start.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer rows.Close()

	var events []calendar.Event
	for rows.Next() {
		var ev calendar.Event
		var endAt sql.NullTime
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Start, &endAt, &ev.AllDay, &ev.Category, &ev.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		if endAt.Valid {
			at := endAt.Time
			ev.End = &at
		}
		if ev.Overlaps(start, end) {
			events = append(events, ev)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calendar events: %w", err)
	}

	return events, nil
}

// Put inserts or replaces an event. Event CRUD is owned by an external
// collaborator; this exists for seeding and tests.
func (r *CalendarRepository) Put(ctx context.Context, ev calendar.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calendar_events (id, title, start_at, end_at, all_day, category, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			all_day = excluded.all_day,
			category = excluded.category,
			completed = excluded.completed
	`, ev.ID, ev.Title, ev.Start, ev.End, ev.AllDay, ev.Category, ev.Completed)
	if err != nil {
		return fmt.Errorf("failed to put calendar event: %w", err)
	}
	return nil
}
