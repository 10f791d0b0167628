package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/odysseylabs/odyssey/internal/config"
	"github.com/odysseylabs/odyssey/internal/contextbus"
	"github.com/odysseylabs/odyssey/internal/domain/activity"
	"github.com/odysseylabs/odyssey/internal/domain/calendar"
	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/domain/nudge"
	"github.com/odysseylabs/odyssey/internal/mcp"
	"github.com/odysseylabs/odyssey/internal/reasoner"
	"github.com/odysseylabs/odyssey/internal/scheduler"
	"github.com/odysseylabs/odyssey/internal/sqlite"
	"github.com/odysseylabs/odyssey/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in MCP mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Mode == "mcp" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	hydrationRepo := sqlite.NewHydrationRepository(db)
	calendarRepo := sqlite.NewCalendarRepository(db)
	nudgeRepo := sqlite.NewNudgeRepository(db)

	window := hydration.Window{
		StartHour: cfg.Hydration.WindowStartHour,
		EndHour:   cfg.Hydration.WindowEndHour,
	}
	ledger := hydration.NewLedger(hydrationRepo, cfg.Hydration.DefaultGoalMl, window, logger, nil)
	ledger.RestoreWindow(ctx)

	history := nudge.NewHistory(nudgeRepo, logger, nil)
	calendarQuery := calendar.NewQuery(calendarRepo)
	stabilizer := activity.NewStabilizer(logger)
	builder := contextbus.NewBuilder(ledger, calendarQuery, history, stabilizer)

	service, err := buildReasoningService(ctx, cfg.Reasoner)
	if err != nil {
		return fmt.Errorf("configuring reasoning backend: %w", err)
	}
	engine := reasoner.NewEngine(service, cfg.Reasoner.Timeout, logger)

	sink := scheduler.NewLogSink(logger, cfg.Scheduler.SpoolPath)
	sched := scheduler.New(scheduler.Config{
		Interval:         cfg.Scheduler.Interval,
		ActivityCooldown: cfg.Scheduler.ActivityCooldown,
		ActivityNudges:   cfg.Scheduler.ActivityNudges,
	}, scheduler.Deps{
		Builder: builder,
		Engine:  engine,
		Ledger:  ledger,
		History: history,
		Sink:    sink,
		Clock:   scheduler.SystemClock,
		Logger:  logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })

	if cfg.Feed.Enabled {
		feed := transport.NewFeed(cfg.Feed.Addr, func(msg transport.Message) {
			if msg.Kind != transport.KindActivity {
				return
			}
			label := activity.Classify(msg.Payload)
			if stable, committed := stabilizer.Observe(label, msg.ReceivedAt); committed {
				sched.OnStableActivity(gctx, stable)
			}
		}, logger, nil)
		g.Go(func() error { return feed.Run(gctx) })
	}

	if cfg.Mode == "mcp" {
		mcpServer := mcp.NewServer(mcp.Config{
			Ledger:  ledger,
			History: history,
			Logger:  logger,
			Now:     time.Now,
		})
		g.Go(func() error {
			logger.Info("starting MCP stdio transport")
			return mcpServer.Run(gctx, &sdkmcp.StdioTransport{})
		})
	}

	logger.Info("odyssey started", "mode", cfg.Mode, "db", cfg.DB.Path)
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("shut down cleanly")
	return nil
}

func buildReasoningService(ctx context.Context, cfg config.ReasonerConfig) (reasoner.Service, error) {
	opts := reasoner.Options{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
	}
	switch cfg.Backend {
	case "genai":
		return reasoner.NewGenAIClient(ctx, cfg.GenAIAPIKey, cfg.GenAIModel, opts)
	default:
		return reasoner.NewLlamaClient(cfg.LlamaURL, opts, nil), nil
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
