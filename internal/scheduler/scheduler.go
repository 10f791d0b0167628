package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/odysseylabs/odyssey/internal/contextbus"
	"github.com/odysseylabs/odyssey/internal/domain/activity"
	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/domain/nudge"
	"github.com/odysseylabs/odyssey/internal/reasoner"
)

// doubleFireGuard is the minimum spacing between any two committed nudges,
// regardless of which path produced them. Two overlapping ticks can both
// decide SEND_NUDGE; serialization orders their commits and this guard stops
// the second one from firing at effectively the same wall-clock moment.
const doubleFireGuard = time.Minute

// reasoningQueueDepth bounds pending ticks waiting for the serialized
// reasoning worker. An in-flight exchange plus a small backlog is enough; a
// dropped tick self-heals on the next period.
const reasoningQueueDepth = 4

// SnapshotBuilder builds one atomic context snapshot.
type SnapshotBuilder interface {
	Build(ctx context.Context, now time.Time) (contextbus.Snapshot, error)
}

// EngineRunner runs one two-stage reasoning exchange.
type EngineRunner interface {
	Run(ctx context.Context, snap contextbus.Snapshot) (reasoner.Outcome, error)
}

// PromptLedger is the ledger surface the scheduler commits through.
type PromptLedger interface {
	LoadToday(ctx context.Context) (hydration.State, error)
	RecordPromptSent(ctx context.Context, at time.Time) (hydration.State, error)
}

// NudgeLogger records delivered nudges.
type NudgeLogger interface {
	LogNudge(ctx context.Context, message string, at time.Time) (nudge.Record, error)
}

// Config tunes the control loop.
type Config struct {
	Interval         time.Duration
	ActivityCooldown time.Duration
	ActivityNudges   bool
}

// Deps are the collaborators injected at startup. There is no ambient global
// state; the composition root owns every instance.
type Deps struct {
	Builder SnapshotBuilder
	Engine  EngineRunner
	Ledger  PromptLedger
	History NudgeLogger
	Sink    Sink
	Clock   Clock
	Logger  *slog.Logger
}

// Scheduler drives the periodic decide-and-nudge control loop. Each tick
// builds its own snapshot concurrently, but all decide/generate exchanges
// are serialized through a single worker so at most one is in flight at a
// time.
type Scheduler struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger

	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	snap     contextbus.Snapshot
	advisory bool
}

// New creates a scheduler.
func New(cfg Config, deps Deps) *Scheduler {
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.ActivityCooldown <= 0 {
		cfg.ActivityCooldown = 10 * time.Minute
	}
	return &Scheduler{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		jobs:   make(chan job, reasoningQueueDepth),
	}
}

// Run blocks driving the loop until ctx is canceled. It always returns nil
// after a clean shutdown; no error in the loop is fatal — the worst case is
// a missed cycle, which self-heals on the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.wg.Add(1)
	go s.worker(ctx)

	ticker := s.deps.Clock.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", s.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.Chan():
			s.startTick(ctx, false)
		}
	}
}

// OnStableActivity is the advisory, event-triggered path. It enforces its
// own minimum spacing against lastPromptAt before even considering
// generation; the periodic path stays authoritative.
func (s *Scheduler) OnStableActivity(ctx context.Context, st activity.Stable) {
	if !s.cfg.ActivityNudges {
		return
	}

	state, err := s.deps.Ledger.LoadToday(ctx)
	if err != nil {
		s.logger.Warn("activity nudge check failed", "error", err)
		return
	}
	now := s.deps.Clock.Now()
	if state.LastPromptAt != nil && now.Sub(*state.LastPromptAt) < s.cfg.ActivityCooldown {
		s.logger.Debug("activity nudge suppressed by cooldown", "label", st.Label, "last_prompt", *state.LastPromptAt)
		return
	}

	s.startTick(ctx, true)
}

// startTick builds a snapshot off the timer path and hands it to the
// serialized reasoning worker. A full queue drops the tick rather than
// blocking the caller.
func (s *Scheduler) startTick(ctx context.Context, advisory bool) {
	now := s.deps.Clock.Now()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		snap, err := s.deps.Builder.Build(ctx, now)
		if err != nil {
			s.logger.Warn("snapshot build failed, skipping cycle", "error", err)
			return
		}

		select {
		case s.jobs <- job{snap: snap, advisory: advisory}:
		default:
			s.logger.Warn("reasoning queue full, dropping tick", "at", now)
		}
	}()
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.jobs:
			s.process(ctx, j)
		}
	}
}

func (s *Scheduler) process(ctx context.Context, j job) {
	outcome, err := s.deps.Engine.Run(ctx, j.snap)
	if err != nil {
		s.logger.Warn("reasoning cycle lost", "error", err)
		return
	}
	if outcome.Decision != reasoner.SendNudge {
		s.logger.Debug("no nudge this cycle", "reasoning", outcome.Reasoning)
		return
	}

	now := s.deps.Clock.Now()
	if s.vetoed(ctx, j, now) {
		return
	}
	s.commit(ctx, outcome.Message, now)
}

// vetoed re-checks spacing right before commit. The reasoning exchange takes
// network time; another serialized job may have committed meanwhile.
func (s *Scheduler) vetoed(ctx context.Context, j job, now time.Time) bool {
	state, err := s.deps.Ledger.LoadToday(ctx)
	if err != nil {
		s.logger.Warn("cooldown check failed, vetoing nudge", "error", err)
		return true
	}
	if state.LastPromptAt == nil {
		return false
	}

	since := now.Sub(*state.LastPromptAt)
	if j.advisory && since < s.cfg.ActivityCooldown {
		s.logger.Debug("advisory nudge vetoed by cooldown", "since_last", since)
		return true
	}
	if since < doubleFireGuard {
		s.logger.Debug("nudge vetoed by double-fire guard", "since_last", since)
		return true
	}
	return false
}

func (s *Scheduler) commit(ctx context.Context, message string, now time.Time) {
	if _, err := s.deps.Ledger.RecordPromptSent(ctx, now); err != nil {
		s.logger.Warn("recording prompt time failed", "error", err)
	}
	if _, err := s.deps.History.LogNudge(ctx, message, now); err != nil {
		// History is context for future decisions, not a delivery gate.
		s.logger.Warn("recording nudge history failed", "error", err)
	}
	s.deps.Sink.Deliver(message, now)
}
