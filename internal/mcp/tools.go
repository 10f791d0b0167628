package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/odysseylabs/odyssey/internal/domain/hydration"
)

type LogWaterParams struct {
	AmountMl int `json:"amount_ml" jsonschema:"Amount of water drunk, in milliliters (must be positive)"`
}

type SetGoalParams struct {
	GoalMl int `json:"goal_ml" jsonschema:"Daily hydration goal in milliliters (must be positive)"`
}

type StatusParams struct{}

type RecentNudgesParams struct {
	Hours int `json:"hours,omitempty" jsonschema:"How many hours back to list (default 24)"`
}

type ResetParams struct{}

type SetWindowParams struct {
	StartHour int `json:"start_hour" jsonschema:"Hour the active window opens (0-23)"`
	EndHour   int `json:"end_hour" jsonschema:"Hour the active window closes (0-23, after start)"`
}

type WindowResponse struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// DayResponse summarizes the current ledger day.
type DayResponse struct {
	Date         string `json:"date"`
	TotalMl      int    `json:"total_ml"`
	GoalMl       int    `json:"goal_ml"`
	EntryCount   int    `json:"entry_count"`
	LastPromptAt string `json:"last_prompt_at,omitempty"`
}

// StatusResponse adds the pacing signal to the day summary.
type StatusResponse struct {
	Day          DayResponse `json:"day"`
	WindowStart  int         `json:"window_start_hour"`
	WindowEnd    int         `json:"window_end_hour"`
	TimeProgress float64     `json:"time_progress"`
	ExpectedMl   int         `json:"expected_ml"`
	GapMl        int         `json:"gap_ml"`
}

// NudgeResponse is one history record.
type NudgeResponse struct {
	Message string `json:"message"`
	At      string `json:"at"`
}

type RecentNudgesResponse struct {
	Nudges []NudgeResponse `json:"nudges"`
}

func dayResponse(state hydration.State) DayResponse {
	resp := DayResponse{
		Date:       state.DateKey,
		TotalMl:    state.TotalMl(),
		GoalMl:     state.DailyGoalMl,
		EntryCount: len(state.Entries),
	}
	if state.LastPromptAt != nil {
		resp.LastPromptAt = state.LastPromptAt.Format(time.RFC3339)
	}
	return resp
}

func registerTools(server *sdkmcp.Server, cfg Config) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_water",
		Description: "Log a water intake amount for today",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params LogWaterParams) (*sdkmcp.CallToolResult, DayResponse, error) {
		state, err := cfg.Ledger.Log(ctx, params.AmountMl)
		if err != nil {
			return nil, DayResponse{}, err
		}
		return nil, dayResponse(state), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_goal",
		Description: "Set today's hydration goal in milliliters",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SetGoalParams) (*sdkmcp.CallToolResult, DayResponse, error) {
		state, err := cfg.Ledger.SetGoal(ctx, params.GoalMl)
		if err != nil {
			return nil, DayResponse{}, err
		}
		return nil, dayResponse(state), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "hydration_status",
		Description: "Get today's intake, goal, and pacing against the active window",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ StatusParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		state, err := cfg.Ledger.LoadToday(ctx)
		if err != nil {
			return nil, StatusResponse{}, err
		}
		window := cfg.Ledger.Window()
		pacing := hydration.ComputePacing(state, window, cfg.Now())
		return nil, StatusResponse{
			Day:          dayResponse(state),
			WindowStart:  window.StartHour,
			WindowEnd:    window.EndHour,
			TimeProgress: pacing.TimeProgress,
			ExpectedMl:   pacing.ExpectedIntakeMl,
			GapMl:        pacing.GapMl,
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_nudges",
		Description: "List nudges delivered recently",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params RecentNudgesParams) (*sdkmcp.CallToolResult, RecentNudgesResponse, error) {
		hours := params.Hours
		if hours <= 0 {
			hours = 24
		}
		recs, err := cfg.History.RecentNudges(ctx, cfg.Now().Add(-time.Duration(hours)*time.Hour))
		if err != nil {
			return nil, RecentNudgesResponse{}, err
		}
		resp := RecentNudgesResponse{Nudges: make([]NudgeResponse, 0, len(recs))}
		for _, rec := range recs {
			resp.Nudges = append(resp.Nudges, NudgeResponse{
				Message: rec.Message,
				At:      rec.Timestamp.Format(time.RFC3339),
			})
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_window",
		Description: "Change the daily window during which nudges may fire",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SetWindowParams) (*sdkmcp.CallToolResult, WindowResponse, error) {
		w := hydration.Window{StartHour: params.StartHour, EndHour: params.EndHour}
		if err := cfg.Ledger.SetWindow(ctx, w); err != nil {
			return nil, WindowResponse{}, err
		}
		return nil, WindowResponse{StartHour: w.StartHour, EndHour: w.EndHour}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reset_today",
		Description: "Discard today's intake entries and restore the default goal",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ResetParams) (*sdkmcp.CallToolResult, DayResponse, error) {
		state, err := cfg.Ledger.ResetToday(ctx)
		if err != nil {
			return nil, DayResponse{}, err
		}
		return nil, dayResponse(state), nil
	})
}
