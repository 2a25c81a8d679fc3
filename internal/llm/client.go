// Package llm wraps the Gemini API behind a single completion call so the
// pipeline components can be tested against a fake completer.
package llm

import (
	"context"
	"fmt"
	"time"

	"trendscope/internal/config"

	"google.golang.org/genai"
)

// Request describes one completion call: a system role, a user message and
// the sampling bounds the caller wants.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int32
}

type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSec) * time.Second,
	}, nil
}

// Complete sends one completion request and returns the model's raw text.
// The call is bounded by the configured timeout; callers decide what a
// failure degrades to.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(req.Prompt)}, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}

	return text, nil
}
