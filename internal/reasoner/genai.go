package reasoner

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIClient is a ReasoningService backed by the Gemini API, for
// deployments without a local inference server.
type GenAIClient struct {
	client *genai.Client
	model  string
	opts   Options
}

// NewGenAIClient creates a Gemini-backed reasoning client.
func NewGenAIClient(ctx context.Context, apiKey, model string, opts Options) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &GenAIClient{client: client, model: model, opts: opts.withDefaults()}, nil
}

// Decide runs a generation and validates it against the decision protocol.
func (c *GenAIClient) Decide(ctx context.Context, contextText string) (DecideResult, error) {
	raw, err := c.generateText(ctx, contextText)
	if err != nil {
		return DecideResult{}, err
	}
	return ParseDecision(raw)
}

// Generate runs a generation and returns the raw text.
func (c *GenAIClient) Generate(ctx context.Context, promptText string) (string, error) {
	return c.generateText(ctx, promptText)
}

func (c *GenAIClient) generateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: int32(c.opts.MaxTokens),
		Temperature:     genai.Ptr(c.opts.Temperature),
		TopP:            genai.Ptr(c.opts.TopP),
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no candidates returned", ErrMalformedResponse)
	}
	return text, nil
}
