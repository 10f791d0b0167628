package hydration

import "context"

// Repository provides durable persistence for ledger days and the window.
// All writes are best-effort from the ledger's perspective: a failed write
// is logged and the in-memory state remains authoritative.
type Repository interface {
	SaveDay(ctx context.Context, state State) error
	LoadDay(ctx context.Context, dateKey string) (*State, error)
	SaveWindow(ctx context.Context, w Window) error
	LoadWindow(ctx context.Context) (*Window, error)
}
