package activity

import "time"

// Label is a semantic activity state inferred from the acoustic stream.
type Label string

const (
	LabelKeyboard   Label = "keyboard"
	LabelFaucet     Label = "faucet"
	LabelBackground Label = "background"
	LabelUnknown    Label = "unknown"
)

// Event is a single raw classification observation. Events are ephemeral:
// they are folded into the stabilizer's rolling state and never persisted.
type Event struct {
	Label      Label     `json:"label"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Stable is a debounced activity state committed by the stabilizer.
type Stable struct {
	Label Label     `json:"label"`
	Since time.Time `json:"since"`
}
