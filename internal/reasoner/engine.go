package reasoner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/odysseylabs/odyssey/internal/contextbus"
)

// MaxMessageLen bounds the generated nudge text.
const MaxMessageLen = 140

// Outcome is the result of one two-stage reasoning exchange. Message is
// non-empty only when Decision is SendNudge and stage 2 produced usable text.
type Outcome struct {
	Decision  Decision
	Reasoning string
	Message   string
}

// Engine orchestrates the two-stage protocol against a ReasoningService.
// Both stages run sequentially within one invocation; the caller serializes
// invocations across overlapping ticks.
type Engine struct {
	service Service
	timeout time.Duration
	logger  *slog.Logger
}

// NewEngine creates a reasoning engine. timeout bounds each stage call.
func NewEngine(service Service, timeout time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Engine{service: service, timeout: timeout, logger: logger}
}

// Run executes decide-then-generate for one snapshot. Any stage failure
// surfaces as an error and the caller must treat it as a lost cycle: the
// decision defaults to NO_NUDGE, never to SEND_NUDGE. A stage-2 failure
// after a SEND_NUDGE decision does not retry stage 1; the next periodic tick
// reattempts naturally.
func (e *Engine) Run(ctx context.Context, snap contextbus.Snapshot) (Outcome, error) {
	contextText := RenderContext(snap)

	decision, err := e.decide(ctx, contextText)
	if err != nil {
		return Outcome{Decision: NoNudge}, err
	}
	if decision.Decision != SendNudge {
		return Outcome{Decision: NoNudge, Reasoning: decision.Reasoning}, nil
	}

	message, err := e.generate(ctx, contextText, decision.Reasoning, snap.Pacing.GapMl)
	if err != nil {
		return Outcome{Decision: NoNudge, Reasoning: decision.Reasoning}, err
	}

	return Outcome{Decision: SendNudge, Reasoning: decision.Reasoning, Message: message}, nil
}

func (e *Engine) decide(ctx context.Context, contextText string) (DecideResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.service.Decide(ctx, DecidePrompt(contextText))
	if err != nil {
		return DecideResult{}, fmt.Errorf("decide stage: %w", err)
	}
	return result, nil
}

func (e *Engine) generate(ctx context.Context, contextText, reasoning string, gapMl int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.service.Generate(ctx, GeneratePrompt(contextText, reasoning, gapMl))
	if err != nil {
		return "", fmt.Errorf("generate stage: %w", err)
	}

	message := sanitizeMessage(raw)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if strings.Contains(message, "?") {
		return "", fmt.Errorf("%w: generated text asks a question", ErrMalformedResponse)
	}
	return message, nil
}

// sanitizeMessage trims whitespace and surrounding quotes and enforces the
// length bound at a rune boundary.
func sanitizeMessage(raw string) string {
	message := strings.TrimSpace(raw)
	message = strings.Trim(message, "\"'")
	message = strings.TrimSpace(message)

	runes := []rune(message)
	if len(runes) > MaxMessageLen {
		message = strings.TrimSpace(string(runes[:MaxMessageLen]))
	}
	return message
}
