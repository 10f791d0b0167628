package reasoner_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odysseylabs/odyssey/internal/contextbus"
	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/reasoner"
)

// scriptedService replays canned stage results and counts calls.
type scriptedService struct {
	decideResult reasoner.DecideResult
	decideErr    error
	generateText string
	generateErr  error

	decideCalls   int
	generateCalls int
	lastGenPrompt string
}

func (s *scriptedService) Decide(_ context.Context, _ string) (reasoner.DecideResult, error) {
	s.decideCalls++
	return s.decideResult, s.decideErr
}

func (s *scriptedService) Generate(_ context.Context, prompt string) (string, error) {
	s.generateCalls++
	s.lastGenPrompt = prompt
	return s.generateText, s.generateErr
}

func snapshotAt(hour int, goal int, amounts ...int) contextbus.Snapshot {
	now := time.Date(2025, 6, 2, hour, 0, 0, 0, time.UTC)
	state := hydration.State{DateKey: "2025-06-02", DailyGoalMl: goal}
	for _, a := range amounts {
		state.Entries = append(state.Entries, hydration.Entry{AmountMl: a, Timestamp: now.Add(-time.Hour)})
	}
	return contextbus.Snapshot{
		Now:       now,
		Hydration: state,
		Window:    hydration.DefaultWindow,
		Pacing:    hydration.ComputePacing(state, hydration.DefaultWindow, now),
	}
}

func TestEngine_NoNudgeSkipsStageTwo(t *testing.T) {
	svc := &scriptedService{decideResult: reasoner.DecideResult{Decision: reasoner.NoNudge, Reasoning: "meeting"}}
	engine := reasoner.NewEngine(svc, time.Second, nil)

	out, err := engine.Run(context.Background(), snapshotAt(15, 2000, 600))
	require.NoError(t, err)
	require.Equal(t, reasoner.NoNudge, out.Decision)
	require.Empty(t, out.Message)
	require.Zero(t, svc.generateCalls)
}

func TestEngine_DecideFailureFailsClosed(t *testing.T) {
	svc := &scriptedService{decideErr: errors.New("connection refused")}
	engine := reasoner.NewEngine(svc, time.Second, nil)

	out, err := engine.Run(context.Background(), snapshotAt(15, 2000, 600))
	require.Error(t, err)
	require.Equal(t, reasoner.NoNudge, out.Decision)
	require.Zero(t, svc.generateCalls, "no stage-2 call after a failed decision")
}

func TestEngine_SendNudgeGeneratesMessage(t *testing.T) {
	svc := &scriptedService{
		decideResult: reasoner.DecideResult{Decision: reasoner.SendNudge, Reasoning: "behind schedule"},
		generateText: "  \"Drink 300 mL of water now.\"  ",
	}
	engine := reasoner.NewEngine(svc, time.Second, nil)

	out, err := engine.Run(context.Background(), snapshotAt(15, 2000, 600))
	require.NoError(t, err)
	require.Equal(t, reasoner.SendNudge, out.Decision)
	require.Equal(t, "Drink 300 mL of water now.", out.Message)
	require.Equal(t, 1, svc.decideCalls)
	require.Equal(t, 1, svc.generateCalls)
}

func TestEngine_GenerateFailureDropsNudgeWithoutRetry(t *testing.T) {
	svc := &scriptedService{
		decideResult: reasoner.DecideResult{Decision: reasoner.SendNudge},
		generateErr:  errors.New("timeout"),
	}
	engine := reasoner.NewEngine(svc, time.Second, nil)

	out, err := engine.Run(context.Background(), snapshotAt(15, 2000, 600))
	require.Error(t, err)
	require.Equal(t, reasoner.NoNudge, out.Decision)
	require.Equal(t, 1, svc.decideCalls, "stage 1 is not retried")
}

func TestEngine_EmptyGeneratedTextIsDropped(t *testing.T) {
	svc := &scriptedService{
		decideResult: reasoner.DecideResult{Decision: reasoner.SendNudge},
		generateText: "   ",
	}
	engine := reasoner.NewEngine(svc, time.Second, nil)

	_, err := engine.Run(context.Background(), snapshotAt(15, 2000, 600))
	require.ErrorIs(t, err, reasoner.ErrEmptyMessage)
}

func TestEngine_QuestionsAreRejected(t *testing.T) {
	svc := &scriptedService{
		decideResult: reasoner.DecideResult{Decision: reasoner.SendNudge},
		generateText: "How about a glass of water?",
	}
	engine := reasoner.NewEngine(svc, time.Second, nil)

	_, err := engine.Run(context.Background(), snapshotAt(15, 2000, 600))
	require.ErrorIs(t, err, reasoner.ErrMalformedResponse)
}

func TestEngine_LongMessagesAreTruncated(t *testing.T) {
	svc := &scriptedService{
		decideResult: reasoner.DecideResult{Decision: reasoner.SendNudge},
		generateText: strings.Repeat("Drink water now. ", 20),
	}
	engine := reasoner.NewEngine(svc, time.Second, nil)

	out, err := engine.Run(context.Background(), snapshotAt(15, 2000, 600))
	require.NoError(t, err)
	require.LessOrEqual(t, len([]rune(out.Message)), reasoner.MaxMessageLen)
}

func TestEngine_BehindScheduleEndToEnd(t *testing.T) {
	// One 500 mL entry at 08:30, evaluated at 18:00: well behind schedule.
	snap := snapshotAt(18, 2000, 500)
	require.Less(t, snap.Pacing.GapMl, -500)

	svc := &scriptedService{
		decideResult: reasoner.DecideResult{Decision: reasoner.SendNudge, Reasoning: "large deficit, no conflicts"},
		generateText: "Drink 400 mL of water now to catch up on today's goal.",
	}
	engine := reasoner.NewEngine(svc, time.Second, nil)

	out, err := engine.Run(context.Background(), snap)
	require.NoError(t, err)
	require.Equal(t, reasoner.SendNudge, out.Decision)
	require.LessOrEqual(t, len([]rune(out.Message)), 140)
	require.NotContains(t, out.Message, "?")

	// The deficit is large enough that stage 2 asks for an explicit amount.
	require.Contains(t, svc.lastGenPrompt, "suggest drinking about")
}
