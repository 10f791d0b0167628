package activity

import (
	"log/slog"
	"sync"
	"time"
)

// StreakLength is the number of consecutive identical raw labels required
// before a new stable state is committed. Raw acoustic classification is
// bursty; a shorter run accepts single-frame misclassification, a longer
// one makes the signal too stale to act on.
const StreakLength = 7

// recentWindow bounds how far back the recent-transition buffer reaches.
const recentWindow = 3 * time.Hour

// Stabilizer turns the noisy raw label stream into a debounced stable
// activity signal. It never triggers interventions itself; the scheduler
// reads its state through the context snapshot.
type Stabilizer struct {
	mu sync.Mutex

	streakLabel Label
	streakCount int
	stable      Stable
	hasStable   bool

	recent []Stable

	logger *slog.Logger
}

// NewStabilizer creates a stabilizer with no stable state.
func NewStabilizer(logger *slog.Logger) *Stabilizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stabilizer{logger: logger}
}

// Observe folds one raw observation into the rolling state. It returns the
// newly committed stable state and true when the observation completes a
// streak of StreakLength identical labels that differs from the last stable
// label. Unknown observations carry no information: they clear the current
// streak without counting for or against any label.
func (s *Stabilizer) Observe(label Label, at time.Time) (Stable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label == LabelUnknown {
		s.streakLabel = LabelUnknown
		s.streakCount = 0
		return Stable{}, false
	}

	if label == s.streakLabel {
		s.streakCount++
	} else {
		s.streakLabel = label
		s.streakCount = 1
	}

	if s.streakCount < StreakLength {
		return Stable{}, false
	}
	if s.hasStable && label == s.stable.Label {
		return Stable{}, false
	}

	s.stable = Stable{Label: label, Since: at}
	s.hasStable = true
	s.recent = append(s.recent, s.stable)
	s.pruneLocked(at)
	s.logger.Debug("stable activity transition", "label", label, "since", at)
	return s.stable, true
}

// Current returns the last committed stable state, if any.
func (s *Stabilizer) Current() (Stable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stable, s.hasStable
}

// Recent returns stable transitions within the trailing 3 hours of now,
// oldest first.
func (s *Stabilizer) Recent(now time.Time) []Stable {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	out := make([]Stable, len(s.recent))
	copy(out, s.recent)
	return out
}

func (s *Stabilizer) pruneLocked(now time.Time) {
	cutoff := now.Add(-recentWindow)
	kept := s.recent[:0]
	for _, st := range s.recent {
		if st.Since.After(cutoff) {
			kept = append(kept, st)
		}
	}
	s.recent = kept
}
