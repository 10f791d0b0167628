package scheduler

import "time"

// Clock abstracts wall time so tick firing can be simulated in tests
// without real time passing.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is a cancellable periodic signal.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	*time.Ticker
}

func (t systemTicker) Chan() <-chan time.Time { return t.C }
