package scheduler

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Sink receives the final nudge message. Delivery is a one-way push; the
// scheduler never waits on or retries it.
type Sink interface {
	Deliver(message string, at time.Time)
}

// LogSink emits nudges as structured log records and optionally appends them
// to a notification spool file for an external presenter to pick up.
type LogSink struct {
	logger    *slog.Logger
	spoolPath string
}

// NewLogSink creates a sink. spoolPath may be empty to disable the spool.
func NewLogSink(logger *slog.Logger, spoolPath string) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger, spoolPath: spoolPath}
}

// Deliver pushes one nudge outward.
func (s *LogSink) Deliver(message string, at time.Time) {
	s.logger.Info("nudge", "message", message, "at", at)
	if s.spoolPath == "" {
		return
	}

	f, err := os.OpenFile(s.spoolPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		s.logger.Warn("opening nudge spool failed", "path", s.spoolPath, "error", err)
		return
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\t%s\n", at.Format(time.RFC3339), message); err != nil {
		s.logger.Warn("writing nudge spool failed", "path", s.spoolPath, "error", err)
	}
}
