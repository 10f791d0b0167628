package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/domain/nudge"
)

const serverInstructions = `Odyssey tracks daily hydration against a goal and an active window,
and nudges the user at opportune moments. Use log_water when the user reports drinking,
hydration_status to see pacing, and set_goal / reset_today to manage the day.`

// LedgerService defines ledger operations needed by MCP.
type LedgerService interface {
	LoadToday(ctx context.Context) (hydration.State, error)
	Log(ctx context.Context, amountMl int) (hydration.State, error)
	SetGoal(ctx context.Context, goalMl int) (hydration.State, error)
	ResetToday(ctx context.Context) (hydration.State, error)
	Window() hydration.Window
	SetWindow(ctx context.Context, w hydration.Window) error
}

// HistoryService defines nudge history operations needed by MCP.
type HistoryService interface {
	RecentNudges(ctx context.Context, since time.Time) ([]nudge.Record, error)
}

// Config contains server configuration.
type Config struct {
	Ledger  LedgerService
	History HistoryService
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewServer creates and configures an MCP server with all tools.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "odyssey",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerTools(server, cfg)
	return server
}
