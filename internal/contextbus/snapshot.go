package contextbus

import (
	"time"

	"github.com/odysseylabs/odyssey/internal/domain/activity"
	"github.com/odysseylabs/odyssey/internal/domain/calendar"
	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/domain/nudge"
)

// Snapshot is one consistent, immutable read of all state sources at a
// single instant. It is assembled fresh on every scheduler tick and consumed
// once by the reasoner; nothing mutates it after construction.
type Snapshot struct {
	Now            time.Time
	Hydration      hydration.State
	Window         hydration.Window
	RecentActivity []activity.Stable
	CalendarWindow []calendar.Event
	RecentNudges   []nudge.Record
	Pacing         hydration.PacingResult
}
