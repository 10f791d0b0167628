package reasoner

import (
	"fmt"
	"strings"

	"github.com/odysseylabs/odyssey/internal/contextbus"
)

// RenderContext flattens a snapshot into the structured context text sent to
// the reasoning service for the timing decision.
func RenderContext(snap contextbus.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Time: %s\n", snap.Now.Format("Mon 15:04"))
	fmt.Fprintf(&b, "Hydration: %d/%d mL logged; expected by now %d mL; gap %+d mL; %.0f%% through %02d:00-%02d:00 window\n",
		snap.Pacing.ActualIntakeMl,
		snap.Hydration.DailyGoalMl,
		snap.Pacing.ExpectedIntakeMl,
		snap.Pacing.GapMl,
		snap.Pacing.TimeProgress*100,
		snap.Window.StartHour,
		snap.Window.EndHour,
	)

	if len(snap.RecentActivity) == 0 {
		b.WriteString("Recent activity: none observed\n")
	} else {
		b.WriteString("Recent activity:")
		for _, st := range snap.RecentActivity {
			fmt.Fprintf(&b, " %s@%s", st.Label, st.Since.Format("15:04"))
		}
		b.WriteString("\n")
	}

	if len(snap.CalendarWindow) == 0 {
		b.WriteString("Calendar (±3h): clear\n")
	} else {
		b.WriteString("Calendar (±3h):\n")
		for _, ev := range snap.CalendarWindow {
			marker := " "
			if !snap.Now.Before(ev.Start) && snap.Now.Before(ev.EffectiveEnd()) {
				marker = "*" // in progress right now
			}
			fmt.Fprintf(&b, "%s %s-%s %s\n", marker, ev.Start.Format("15:04"), ev.EffectiveEnd().Format("15:04"), ev.Title)
		}
	}

	if len(snap.RecentNudges) == 0 {
		b.WriteString("Nudges today: none\n")
	} else {
		last := snap.RecentNudges[len(snap.RecentNudges)-1]
		fmt.Fprintf(&b, "Nudges today: %d; last at %s: %q\n", len(snap.RecentNudges), last.Timestamp.Format("15:04"), last.Message)
	}

	return b.String()
}

// DecidePrompt wraps the rendered context with the timing-decision rubric.
func DecidePrompt(contextText string) string {
	var b strings.Builder
	b.WriteString("You decide whether to send a hydration nudge right now.\n\n")
	b.WriteString(contextText)
	b.WriteString("\nWeigh: how far behind the intake gap is, whether a calendar event overlaps the current moment (never nudge during a meeting), how recently activity was observed, and how recently the user was already nudged.\n")
	b.WriteString("Think briefly, then end your reply with exactly one tag on its own line: " + tagSendNudge + " or " + tagNoNudge + "\n")
	return b.String()
}

// GeneratePrompt wraps the stage-1 reasoning and the same context with the
// message constraints for stage 2.
func GeneratePrompt(contextText, reasoning string, gapMl int) string {
	var b strings.Builder
	b.WriteString("Write one hydration nudge for the user.\n\n")
	b.WriteString(contextText)
	if reasoning != "" {
		b.WriteString("\nTiming rationale: " + reasoning + "\n")
	}
	b.WriteString("\nConstraints: at most 140 characters; imperative voice; no questions")
	if gapMl <= -suggestAmountGapMl {
		fmt.Fprintf(&b, "; suggest drinking about %d mL now", suggestedAmount(gapMl))
	}
	b.WriteString(". Reply with the message text only.\n")
	return b.String()
}

// suggestAmountGapMl is the behind-schedule threshold past which the prompt
// asks for an explicit amount.
const suggestAmountGapMl = 250

// suggestedAmount picks a round glass-sized amount toward closing the gap.
func suggestedAmount(gapMl int) int {
	deficit := -gapMl
	if deficit > 500 {
		deficit = 500
	}
	return deficit / 50 * 50
}
