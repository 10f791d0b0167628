package transport

import (
	"strings"
	"time"
)

// Kind discriminates the known feed message kinds. The wire format is
// newline-delimited "<prefix>:<payload>" frames.
type Kind string

const (
	KindActivity Kind = "activity"
	KindWake     Kind = "wake"
	KindCommand  Kind = "cmd"
	KindTest     Kind = "test"
	KindUnknown  Kind = "unknown"
)

// Message is one decoded feed frame. Unknown frames keep their raw parts in
// Attrs as a string-keyed, string-valued map so they stay serializable;
// payloads never carry arbitrary dynamic values.
type Message struct {
	Kind       Kind
	Payload    string
	Attrs      map[string]string
	ReceivedAt time.Time
}

// Parse decodes one frame. It is total: anything unrecognized becomes a
// KindUnknown message rather than an error.
func Parse(line string, at time.Time) Message {
	line = strings.TrimSpace(line)
	prefix, payload, found := strings.Cut(line, ":")
	if !found {
		return Message{
			Kind:       KindUnknown,
			Attrs:      map[string]string{"raw": line},
			ReceivedAt: at,
		}
	}

	payload = strings.TrimSpace(payload)
	switch Kind(strings.ToLower(strings.TrimSpace(prefix))) {
	case KindActivity:
		return Message{Kind: KindActivity, Payload: payload, ReceivedAt: at}
	case KindWake:
		return Message{Kind: KindWake, Payload: payload, ReceivedAt: at}
	case KindCommand:
		return Message{Kind: KindCommand, Payload: payload, ReceivedAt: at}
	case KindTest:
		return Message{Kind: KindTest, Payload: payload, ReceivedAt: at}
	default:
		return Message{
			Kind:       KindUnknown,
			Attrs:      map[string]string{"prefix": prefix, "payload": payload},
			ReceivedAt: at,
		}
	}
}
