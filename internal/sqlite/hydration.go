package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/repository"
)

// windowConfigKey is the settings row carrying the hydration window.
const windowConfigKey = "hydration_window_config"

// HydrationRepository implements repository.HydrationRepository for SQLite
type HydrationRepository struct {
	db *DB
}

// NewHydrationRepository creates a new HydrationRepository
func NewHydrationRepository(db *DB) *HydrationRepository {
	return &HydrationRepository{db: db}
}

// SaveDay writes the full day state in one transaction. The ledger is the
// authority on day contents, so entries are replaced wholesale.
func (r *HydrationRepository) SaveDay(ctx context.Context, state hydration.State) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hydration_days (date_key, daily_goal_ml, last_prompt_at)
		VALUES (?, ?, ?)
		ON CONFLICT(date_key) DO UPDATE SET
			daily_goal_ml = excluded.daily_goal_ml,
			last_prompt_at = excluded.last_prompt_at
	`, state.DateKey, state.DailyGoalMl, state.LastPromptAt)
	if err != nil {
		return fmt.Errorf("failed to save hydration day: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM hydration_entries WHERE date_key = ?`, state.DateKey); err != nil {
		return fmt.Errorf("failed to clear hydration entries: %w", err)
	}
	for _, entry := range state.Entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO hydration_entries (id, date_key, amount_ml, logged_at)
			VALUES (?, ?, ?, ?)
		`, entry.ID, state.DateKey, entry.AmountMl, entry.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to save hydration entry: %w", err)
		}
	}

	return tx.Commit()
}

// LoadDay reads one day's state, returning repository.ErrNotFound when the
// day has never been persisted.
func (r *HydrationRepository) LoadDay(ctx context.Context, dateKey string) (*hydration.State, error) {
	state := &hydration.State{DateKey: dateKey}

	var lastPromptAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT daily_goal_ml, last_prompt_at FROM hydration_days WHERE date_key = ?
	`, dateKey).Scan(&state.DailyGoalMl, &lastPromptAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hydration day: %w", err)
	}
	if lastPromptAt.Valid {
		at := lastPromptAt.Time
		state.LastPromptAt = &at
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_ml, logged_at FROM hydration_entries
		WHERE date_key = ? ORDER BY logged_at ASC
	`, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load hydration entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry hydration.Entry
		if err := rows.Scan(&entry.ID, &entry.AmountMl, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan hydration entry: %w", err)
		}
		state.Entries = append(state.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hydration entries: %w", err)
	}

	return state, nil
}

// SaveWindow persists the hydration window config.
func (r *HydrationRepository) SaveWindow(ctx context.Context, w hydration.Window) error {
	value, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode window: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, windowConfigKey, string(value))
	if err != nil {
		return fmt.Errorf("failed to save window config: %w", err)
	}
	return nil
}

// LoadWindow reads the persisted hydration window, returning
// repository.ErrNotFound when none has been stored.
func (r *HydrationRepository) LoadWindow(ctx context.Context) (*hydration.Window, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, windowConfigKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load window config: %w", err)
	}

	var w hydration.Window
	if err := json.Unmarshal([]byte(value), &w); err != nil {
		return nil, fmt.Errorf("failed to decode window config: %w", err)
	}
	return &w, nil
}
