package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/odysseylabs/odyssey/internal/contextbus"
	"github.com/odysseylabs/odyssey/internal/domain/activity"
	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/domain/nudge"
	"github.com/odysseylabs/odyssey/internal/reasoner"
	"github.com/odysseylabs/odyssey/internal/scheduler"
)

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	ticks chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, ticks: make(chan time.Time, 1)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(time.Duration) scheduler.Ticker { return fakeTicker{c.ticks} }

func (c *fakeClock) fire() {
	c.ticks <- c.Now()
}

type fakeTicker struct{ c chan time.Time }

func (t fakeTicker) Chan() <-chan time.Time { return t.c }
func (t fakeTicker) Stop()                  {}

type fakeBuilder struct {
	snap contextbus.Snapshot
	err  error
}

func (b *fakeBuilder) Build(_ context.Context, now time.Time) (contextbus.Snapshot, error) {
	if b.err != nil {
		return contextbus.Snapshot{}, b.err
	}
	snap := b.snap
	snap.Now = now
	return snap, nil
}

type fakeEngine struct {
	mu      sync.Mutex
	outcome reasoner.Outcome
	err     error
	calls   int
}

func (e *fakeEngine) Run(context.Context, contextbus.Snapshot) (reasoner.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return e.outcome, e.err
}

func (e *fakeEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

type fakeLedger struct {
	mu           sync.Mutex
	lastPromptAt *time.Time
	recorded     []time.Time
}

func (l *fakeLedger) LoadToday(context.Context) (hydration.State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return hydration.State{DateKey: "2025-06-02", DailyGoalMl: 2000, LastPromptAt: l.lastPromptAt}, nil
}

func (l *fakeLedger) RecordPromptSent(_ context.Context, at time.Time) (hydration.State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastPromptAt = &at
	l.recorded = append(l.recorded, at)
	return hydration.State{DateKey: "2025-06-02", DailyGoalMl: 2000, LastPromptAt: &at}, nil
}

type fakeHistory struct {
	mu       sync.Mutex
	messages []string
}

func (h *fakeHistory) LogNudge(_ context.Context, message string, at time.Time) (nudge.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, message)
	return nudge.Record{ID: "r", Message: message, Timestamp: at}, nil
}

type fakeSink struct {
	mu        sync.Mutex
	delivered []string
}

func (s *fakeSink) Deliver(message string, _ time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered = append(s.delivered, message)
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

type fixture struct {
	clock   *fakeClock
	builder *fakeBuilder
	engine  *fakeEngine
	ledger  *fakeLedger
	history *fakeHistory
	sink    *fakeSink
	sched   *scheduler.Scheduler
}

func newFixture(cfg scheduler.Config) *fixture {
	f := &fixture{
		clock:   newFakeClock(time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)),
		builder: &fakeBuilder{},
		engine:  &fakeEngine{outcome: reasoner.Outcome{Decision: reasoner.NoNudge}},
		ledger:  &fakeLedger{},
		history: &fakeHistory{},
		sink:    &fakeSink{},
	}
	f.sched = scheduler.New(cfg, scheduler.Deps{
		Builder: f.builder,
		Engine:  f.engine,
		Ledger:  f.ledger,
		History: f.history,
		Sink:    f.sink,
		Clock:   f.clock,
	})
	return f
}

func runScheduler(t *testing.T, f *fixture) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.sched.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop")
		}
	})
	return cancel
}

func TestScheduler_TickCommitsNudge(t *testing.T) {
	f := newFixture(scheduler.Config{Interval: time.Minute})
	f.engine.outcome = reasoner.Outcome{Decision: reasoner.SendNudge, Message: "Drink 300 mL of water now."}
	runScheduler(t, f)

	f.clock.fire()

	require.Eventually(t, func() bool { return f.sink.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"Drink 300 mL of water now."}, f.sink.delivered)
	require.Equal(t, []string{"Drink 300 mL of water now."}, f.history.messages)
	require.Len(t, f.ledger.recorded, 1)
}

func TestScheduler_NoNudgeDecisionCommitsNothing(t *testing.T) {
	f := newFixture(scheduler.Config{Interval: time.Minute})
	runScheduler(t, f)

	f.clock.fire()

	require.Eventually(t, func() bool { return f.engine.callCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Zero(t, f.sink.count())
	require.Empty(t, f.history.messages)
}

func TestScheduler_EngineFailureFailsClosed(t *testing.T) {
	f := newFixture(scheduler.Config{Interval: time.Minute})
	f.engine.err = errors.New("backend unreachable")
	runScheduler(t, f)

	f.clock.fire()

	require.Eventually(t, func() bool { return f.engine.callCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Zero(t, f.sink.count())
}

func TestScheduler_BuildFailureSkipsCycle(t *testing.T) {
	f := newFixture(scheduler.Config{Interval: time.Minute})
	f.builder.err = errors.New("store unavailable")
	runScheduler(t, f)

	f.clock.fire()

	// The cycle is skipped entirely; the reasoner is never consulted.
	time.Sleep(100 * time.Millisecond)
	require.Zero(t, f.engine.callCount())
	require.Zero(t, f.sink.count())
}

func TestScheduler_ActivityPathSuppressedWithinCooldown(t *testing.T) {
	f := newFixture(scheduler.Config{
		Interval:         time.Minute,
		ActivityCooldown: 10 * time.Minute,
		ActivityNudges:   true,
	})
	f.engine.outcome = reasoner.Outcome{Decision: reasoner.SendNudge, Message: "Hydrate."}

	last := f.clock.Now().Add(-5 * time.Minute)
	f.ledger.lastPromptAt = &last
	runScheduler(t, f)

	f.sched.OnStableActivity(context.Background(), activity.Stable{Label: activity.LabelFaucet, Since: f.clock.Now()})

	// Suppressed before generation: the engine is never invoked.
	time.Sleep(100 * time.Millisecond)
	require.Zero(t, f.engine.callCount())
	require.Zero(t, f.sink.count())
}

func TestScheduler_ActivityPathFiresBeyondCooldown(t *testing.T) {
	f := newFixture(scheduler.Config{
		Interval:         time.Minute,
		ActivityCooldown: 10 * time.Minute,
		ActivityNudges:   true,
	})
	f.engine.outcome = reasoner.Outcome{Decision: reasoner.SendNudge, Message: "Hydrate."}

	last := f.clock.Now().Add(-25 * time.Minute)
	f.ledger.lastPromptAt = &last
	runScheduler(t, f)

	f.sched.OnStableActivity(context.Background(), activity.Stable{Label: activity.LabelFaucet, Since: f.clock.Now()})

	require.Eventually(t, func() bool { return f.sink.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_ActivityPathDisabledByDefault(t *testing.T) {
	f := newFixture(scheduler.Config{Interval: time.Minute})
	f.engine.outcome = reasoner.Outcome{Decision: reasoner.SendNudge, Message: "Hydrate."}
	runScheduler(t, f)

	f.sched.OnStableActivity(context.Background(), activity.Stable{Label: activity.LabelFaucet, Since: f.clock.Now()})

	time.Sleep(100 * time.Millisecond)
	require.Zero(t, f.engine.callCount())
}

func TestScheduler_DoubleFireGuardVetoesBackToBackCommits(t *testing.T) {
	f := newFixture(scheduler.Config{Interval: time.Minute})
	f.engine.outcome = reasoner.Outcome{Decision: reasoner.SendNudge, Message: "Hydrate."}

	last := f.clock.Now().Add(-30 * time.Second)
	f.ledger.lastPromptAt = &last
	runScheduler(t, f)

	f.clock.fire()

	require.Eventually(t, func() bool { return f.engine.callCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	require.Zero(t, f.sink.count(), "a nudge 30s after the previous one must be vetoed")
}

func TestScheduler_ShutdownLeaksNoGoroutines(t *testing.T) {
	// go.opencensus.io (linked transitively via google.golang.org/genai)
	// starts a permanent worker goroutine in package init; it is not
	// something the scheduler owns or can stop.
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	f := newFixture(scheduler.Config{Interval: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.sched.Run(ctx)
	}()

	f.clock.fire()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
