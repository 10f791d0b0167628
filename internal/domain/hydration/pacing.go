package hydration

import "time"

// PacingResult compares elapsed-time progress through the hydration window
// against goal-intake progress. A negative GapMl means behind schedule.
type PacingResult struct {
	TimeProgress     float64 `json:"time_progress"`
	ExpectedIntakeMl int     `json:"expected_intake_ml"`
	ActualIntakeMl   int     `json:"actual_intake_ml"`
	GapMl            int     `json:"gap_ml"`
}

// ComputePacing derives the pacing signal for now. Time progress is minutes
// elapsed since the window start over total window minutes, clamped to
// [0, 1]: before the window 0% is expected, after it 100%. The window never
// extrapolates beyond its bounds.
func ComputePacing(state State, w Window, now time.Time) PacingResult {
	start := time.Date(now.Year(), now.Month(), now.Day(), w.StartHour, 0, 0, 0, now.Location())
	totalMin := float64((w.EndHour - w.StartHour) * 60)

	elapsedMin := now.Sub(start).Minutes()
	progress := 0.0
	if totalMin > 0 {
		progress = elapsedMin / totalMin
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	expected := int(float64(state.DailyGoalMl) * progress)
	actual := state.TotalMl()
	return PacingResult{
		TimeProgress:     progress,
		ExpectedIntakeMl: expected,
		ActualIntakeMl:   actual,
		GapMl:            actual - expected,
	}
}
