package reasoner_test

import (
	"testing"

	"github.com/odysseylabs/odyssey/internal/reasoner"
	"github.com/stretchr/testify/require"
)

func TestParseDecision_SendNudge(t *testing.T) {
	raw := "The user is 400 mL behind and free right now.\n[decision: SEND_NUDGE]"
	result, err := reasoner.ParseDecision(raw)
	require.NoError(t, err)
	require.Equal(t, reasoner.SendNudge, result.Decision)
	require.Equal(t, "The user is 400 mL behind and free right now.", result.Reasoning)
}

func TestParseDecision_NoNudge(t *testing.T) {
	result, err := reasoner.ParseDecision("In a meeting.\n[decision: NO_NUDGE]")
	require.NoError(t, err)
	require.Equal(t, reasoner.NoNudge, result.Decision)
}

func TestParseDecision_RejectsNonConforming(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"whitespace":       "  \n\t",
		"missing tag":      "I think we should send a nudge now.",
		"near miss":        "[decision: SEND]",
		"wrong case":       "[decision: send_nudge]",
		"conflicting tags": "[decision: SEND_NUDGE]\n[decision: NO_NUDGE]",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := reasoner.ParseDecision(raw)
			require.ErrorIs(t, err, reasoner.ErrMalformedResponse)
		})
	}
}
