package hydration

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger owns the current day's hydration state. It is a read-modify-persist
// service: every mutation updates in-memory state first and then writes
// through to the repository. Persistence failures are logged and swallowed;
// the in-memory state stays authoritative for the process lifetime.
type Ledger struct {
	mu     sync.Mutex
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	defaultGoal int
	window      Window
	state       *State
}

// NewLedger creates a ledger. now may be nil, in which case time.Now is used.
func NewLedger(repo Repository, defaultGoal int, window Window, logger *slog.Logger, now func() time.Time) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	if defaultGoal <= 0 {
		defaultGoal = DefaultGoalMl
	}
	if window == (Window{}) {
		window = DefaultWindow
	}
	return &Ledger{
		repo:        repo,
		logger:      logger,
		now:         now,
		defaultGoal: defaultGoal,
		window:      window,
	}
}

// LoadToday returns the state for the current local day, lazily rolling over
// at midnight. A new day starts empty with the default goal.
func (l *Ledger) LoadToday(ctx context.Context) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.todayLocked(ctx).Clone(), nil
}

// Log appends an intake entry. Amounts must be positive; invalid amounts are
// rejected, never clamped.
func (l *Ledger) Log(ctx context.Context, amountMl int) (State, error) {
	if amountMl <= 0 {
		return State{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	state := l.todayLocked(ctx)
	state.Entries = append(state.Entries, Entry{
		ID:        uuid.NewString(),
		AmountMl:  amountMl,
		Timestamp: l.now(),
	})
	l.persistLocked(ctx)
	return state.Clone(), nil
}

// SetGoal replaces the daily goal for the current day.
func (l *Ledger) SetGoal(ctx context.Context, goalMl int) (State, error) {
	if goalMl <= 0 {
		return State{}, ErrInvalidGoal
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	state := l.todayLocked(ctx)
	state.DailyGoalMl = goalMl
	l.persistLocked(ctx)
	return state.Clone(), nil
}

// RecordPromptSent stamps the last intervention time on the current day.
func (l *Ledger) RecordPromptSent(ctx context.Context, at time.Time) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := l.todayLocked(ctx)
	state.LastPromptAt = &at
	l.persistLocked(ctx)
	return state.Clone(), nil
}

// ResetToday discards today's entries and restores the default goal.
func (l *Ledger) ResetToday(ctx context.Context) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := DateKey(l.now())
	l.state = &State{DateKey: key, DailyGoalMl: l.defaultGoal}
	l.persistLocked(ctx)
	return l.state.Clone(), nil
}

// Window returns the active hydration window.
func (l *Ledger) Window() Window {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.window
}

// SetWindow replaces the active hydration window and persists it.
func (l *Ledger) SetWindow(ctx context.Context, w Window) error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 || w.StartHour >= w.EndHour {
		return ErrInvalidWindow
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.window = w
	if err := l.repo.SaveWindow(ctx, w); err != nil {
		l.logger.Warn("persisting hydration window failed", "error", err)
	}
	return nil
}

// RestoreWindow loads a previously persisted window, keeping the configured
// default when none is stored.
func (l *Ledger) RestoreWindow(ctx context.Context) {
	w, err := l.repo.LoadWindow(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.logger.Warn("loading hydration window failed", "error", err)
		}
		return
	}

	l.mu.Lock()
	l.window = *w
	l.mu.Unlock()
}

// todayLocked returns the in-memory state for the current day, initializing
// or rolling it over as needed. Crossing midnight invalidates the previous
// day; the fresh day is seeded from the store when a row already exists for
// the new date (a restart mid-day), otherwise it starts empty.
func (l *Ledger) todayLocked(ctx context.Context) *State {
	key := DateKey(l.now())
	if l.state != nil && l.state.DateKey == key {
		return l.state
	}

	stored, err := l.repo.LoadDay(ctx, key)
	switch {
	case err == nil:
		l.state = stored
	case errors.Is(err, ErrNotFound):
		l.state = &State{DateKey: key, DailyGoalMl: l.defaultGoal}
	default:
		l.logger.Warn("loading hydration day failed, starting fresh", "date", key, "error", err)
		l.state = &State{DateKey: key, DailyGoalMl: l.defaultGoal}
	}
	return l.state
}

func (l *Ledger) persistLocked(ctx context.Context) {
	if err := l.repo.SaveDay(ctx, l.state.Clone()); err != nil {
		l.logger.Warn("persisting hydration day failed, keeping in-memory state", "date", l.state.DateKey, "error", err)
	}
}
