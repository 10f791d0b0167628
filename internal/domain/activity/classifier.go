package activity

import "strings"

// Classify maps a raw transport label onto the closed label set. It is total:
// any string it does not recognize maps to LabelUnknown.
func Classify(raw string) Label {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "keyboard", "typing", "keys":
		return LabelKeyboard
	case "faucet", "water", "sink", "tap":
		return LabelFaucet
	case "background", "silence", "ambient", "quiet":
		return LabelBackground
	default:
		return LabelUnknown
	}
}
