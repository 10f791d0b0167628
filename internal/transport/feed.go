package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Feed accepts sensor connections and forwards decoded frames to a handler.
// The wireless link itself is an external collaborator; from the core's view
// each frame is just an opaque string label with a prefix.
type Feed struct {
	addr    string
	handler func(Message)
	logger  *slog.Logger
	now     func() time.Time
}

// NewFeed creates a feed listener. now may be nil, in which case time.Now is
// used.
func NewFeed(addr string, handler func(Message), logger *slog.Logger, now func() time.Time) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Feed{addr: addr, handler: handler, logger: logger, now: now}
}

// Run listens until ctx is canceled. Connection errors are logged, never
// fatal; a dropped sensor link simply reconnects.
func (f *Feed) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", f.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", f.addr, err)
	}

	var wg sync.WaitGroup
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	f.logger.Info("activity feed listening", "addr", f.addr)
	for {
		conn, err := listener.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting feed connection: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			f.serve(ctx, conn)
		}()
	}
}

func (f *Feed) serve(ctx context.Context, conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		msg := Parse(line, f.now())
		if msg.Kind == KindUnknown {
			f.logger.Debug("unrecognized feed frame", "attrs", msg.Attrs)
		}
		f.handler(msg)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		f.logger.Warn("feed connection error", "error", err)
	}
}
