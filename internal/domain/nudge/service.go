package nudge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// History manages the time-bounded intervention log.
type History struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewHistory creates a history service. now may be nil, in which case
// time.Now is used.
func NewHistory(repo Repository, logger *slog.Logger, now func() time.Time) *History {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &History{repo: repo, logger: logger, now: now}
}

// LogNudge appends a delivered intervention and prunes records older than
// the retention horizon.
func (h *History) LogNudge(ctx context.Context, message string, at time.Time) (Record, error) {
	if message == "" {
		return Record{}, ErrEmptyMessage
	}

	rec := Record{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: at,
	}
	if err := h.repo.Append(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("appending nudge record: %w", err)
	}

	cutoff := h.now().Add(-Retention)
	if err := h.repo.Prune(ctx, cutoff); err != nil {
		// Retention is enforced again on the next write; a failed prune is
		// not worth failing the append for.
		h.logger.Warn("pruning nudge history failed", "cutoff", cutoff, "error", err)
	}
	return rec, nil
}

// RecentNudges lists records at or after since, oldest first.
func (h *History) RecentNudges(ctx context.Context, since time.Time) ([]Record, error) {
	recs, err := h.repo.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("listing nudge history: %w", err)
	}
	return recs, nil
}
