package reasoner

import (
	"fmt"
	"strings"
)

const (
	tagSendNudge = "[decision: SEND_NUDGE]"
	tagNoNudge   = "[decision: NO_NUDGE]"
)

// ParseDecision validates raw stage-1 model output against the decision
// protocol. The response must carry exactly one terminal decision tag; the
// text before the tag is kept as reasoning. Anything else is rejected —
// callers treat rejection as NO_NUDGE, never as SEND_NUDGE.
func ParseDecision(raw string) (DecideResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DecideResult{}, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	hasSend := strings.Contains(trimmed, tagSendNudge)
	hasNo := strings.Contains(trimmed, tagNoNudge)
	switch {
	case hasSend && hasNo:
		return DecideResult{}, fmt.Errorf("%w: conflicting decision tags", ErrMalformedResponse)
	case hasSend:
		return DecideResult{
			Decision:  SendNudge,
			Reasoning: reasoningBefore(trimmed, tagSendNudge),
		}, nil
	case hasNo:
		return DecideResult{
			Decision:  NoNudge,
			Reasoning: reasoningBefore(trimmed, tagNoNudge),
		}, nil
	default:
		return DecideResult{}, fmt.Errorf("%w: missing decision tag", ErrMalformedResponse)
	}
}

func reasoningBefore(text, tag string) string {
	idx := strings.Index(text, tag)
	return strings.TrimSpace(text[:idx])
}
