package reasoner

import "context"

// Decision is the stage-1 outcome of a reasoning exchange.
type Decision string

const (
	NoNudge   Decision = "NO_NUDGE"
	SendNudge Decision = "SEND_NUDGE"
)

// DecideResult is the structured stage-1 result. Backends validate the raw
// model output against the decision protocol and reject non-conforming
// responses instead of substring-matching free text.
type DecideResult struct {
	Decision  Decision
	Reasoning string
}

// Service is the external reasoning capability. Both calls have
// network-class latency and failure modes; callers bound them with a
// context timeout.
type Service interface {
	Decide(ctx context.Context, contextText string) (DecideResult, error)
	Generate(ctx context.Context, promptText string) (string, error)
}
