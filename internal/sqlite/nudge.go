package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/odysseylabs/odyssey/internal/domain/nudge"
)

// NudgeRepository implements repository.NudgeRepository for SQLite
type NudgeRepository struct {
	db *DB
}

// NewNudgeRepository creates a new NudgeRepository
func NewNudgeRepository(db *DB) *NudgeRepository {
	return &NudgeRepository{db: db}
}

// Append inserts a new nudge record.
func (r *NudgeRepository) Append(ctx context.Context, rec nudge.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO nudge_history (id, message, created_at) VALUES (?, ?, ?)
	`, rec.ID, rec.Message, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append nudge record: %w", err)
	}
	return nil
}

// Prune deletes records strictly older than cutoff.
func (r *NudgeRepository) Prune(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM nudge_history WHERE created_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune nudge history: %w", err)
	}
	return nil
}

// ListSince returns records at or after since, oldest first.
func (r *NudgeRepository) ListSince(ctx context.Context, since time.Time) ([]nudge.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, message, created_at FROM nudge_history
		WHERE created_at >= ? ORDER BY created_at ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list nudge history: %w", err)
	}
	defer rows.Close()

	var recs []nudge.Record
	for rows.Next() {
		var rec nudge.Record
		if err := rows.Scan(&rec.ID, &rec.Message, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan nudge record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nudge records: %w", err)
	}

	return recs, nil
}
