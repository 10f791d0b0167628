package reasoner_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/odysseylabs/odyssey/internal/reasoner"
	"github.com/stretchr/testify/require"
)

func TestLlamaClient_DecideParsesProtocol(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{
			"content": "gap is large\n[decision: SEND_NUDGE]",
		})
	}))
	defer server.Close()

	client := reasoner.NewLlamaClient(server.URL, reasoner.Options{MaxTokens: 128, Temperature: 0.5, TopP: 0.8}, nil)
	result, err := client.Decide(context.Background(), "context text")
	require.NoError(t, err)
	require.Equal(t, reasoner.SendNudge, result.Decision)
	require.Equal(t, "gap is large", result.Reasoning)

	require.Equal(t, "/completion", gotPath)
	require.Equal(t, "context text", gotBody["prompt"])
	require.EqualValues(t, 128, gotBody["n_predict"])
	require.Equal(t, false, gotBody["stream"])
}

func TestLlamaClient_DecideRejectsMissingTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"content": "sure, sending a nudge"})
	}))
	defer server.Close()

	client := reasoner.NewLlamaClient(server.URL, reasoner.Options{}, nil)
	_, err := client.Decide(context.Background(), "context")
	require.ErrorIs(t, err, reasoner.ErrMalformedResponse)
}

func TestLlamaClient_ServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := reasoner.NewLlamaClient(server.URL, reasoner.Options{}, nil)
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestLlamaClient_GenerateReturnsContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"content": "Drink up."})
	}))
	defer server.Close()

	client := reasoner.NewLlamaClient(server.URL, reasoner.Options{}, nil)
	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "Drink up.", text)
}
