package nudge

import (
	"context"
	"time"
)

// Repository persists the append-only intervention history.
type Repository interface {
	Append(ctx context.Context, rec Record) error
	Prune(ctx context.Context, cutoff time.Time) error
	ListSince(ctx context.Context, since time.Time) ([]Record, error)
}
