package hydration

import "time"

// DateKeyFormat is the local calendar date key scoping a ledger day.
const DateKeyFormat = "2006-01-02"

// Entry is one logged intake. Entries are immutable once created.
type Entry struct {
	ID        string    `json:"id"`
	AmountMl  int       `json:"amount_ml"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the full ledger state for a single calendar day.
type State struct {
	DateKey      string     `json:"date_key"`
	Entries      []Entry    `json:"entries"`
	DailyGoalMl  int        `json:"daily_goal_ml"`
	LastPromptAt *time.Time `json:"last_prompt_at,omitempty"`
}

// TotalMl sums the day's logged intake.
func (s State) TotalMl() int {
	total := 0
	for _, e := range s.Entries {
		total += e.AmountMl
	}
	return total
}

// Clone returns a deep copy safe to hand to snapshot consumers.
func (s State) Clone() State {
	out := s
	out.Entries = make([]Entry, len(s.Entries))
	copy(out.Entries, s.Entries)
	if s.LastPromptAt != nil {
		at := *s.LastPromptAt
		out.LastPromptAt = &at
	}
	return out
}

// Window is the active hydration window on a 24h clock.
type Window struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// DefaultWindow is used when no window has been configured.
var DefaultWindow = Window{StartHour: 8, EndHour: 22}

// DefaultGoalMl is the goal assigned to a freshly initialized day.
const DefaultGoalMl = 2000

// DateKey formats t as a local calendar date key.
func DateKey(t time.Time) string {
	return t.Format(DateKeyFormat)
}
