package reasoner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Options carries the sampling knobs passed through to a backend.
type Options struct {
	MaxTokens   int
	Temperature float32
	TopP        float32
}

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = 256
	}
	if o.Temperature <= 0 {
		o.Temperature = 0.7
	}
	if o.TopP <= 0 {
		o.TopP = 0.9
	}
	return o
}

// LlamaClient is a ReasoningService backed by a local llama.cpp server's
// /completion endpoint.
type LlamaClient struct {
	baseURL string
	opts    Options
	httpc   *http.Client
}

// NewLlamaClient creates a client for the given server base URL. httpc may
// be nil, in which case http.DefaultClient is used; per-call deadlines come
// from the caller's context.
func NewLlamaClient(baseURL string, opts Options, httpc *http.Client) *LlamaClient {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &LlamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts.withDefaults(),
		httpc:   httpc,
	}
}

// Decide runs a completion and validates it against the decision protocol.
func (c *LlamaClient) Decide(ctx context.Context, contextText string) (DecideResult, error) {
	raw, err := c.complete(ctx, contextText)
	if err != nil {
		return DecideResult{}, err
	}
	return ParseDecision(raw)
}

// Generate runs a completion and returns the raw text.
func (c *LlamaClient) Generate(ctx context.Context, promptText string) (string, error) {
	return c.complete(ctx, promptText)
}

type llamaCompletionRequest struct {
	Prompt      string  `json:"prompt"`
	NPredict    int     `json:"n_predict"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	Stream      bool    `json:"stream"`
}

type llamaCompletionResponse struct {
	Content string `json:"content"`
}

func (c *LlamaClient) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(llamaCompletionRequest{
		Prompt:      prompt,
		NPredict:    c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		TopP:        c.opts.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling llama server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llama server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out llamaCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	return out.Content, nil
}
