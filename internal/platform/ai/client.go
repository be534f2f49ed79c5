// Package ai provides the language-model client used for symptom advice,
// report analysis, and the chat assistant. The Gemini implementation talks
// to Google's Generative AI API; the static implementation returns canned
// replies and needs no credentials.
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultSystemPrompt is the cautious medical-assistant instruction applied
// when a caller passes no system prompt of its own.
const DefaultSystemPrompt = "You are a helpful, cautious medical assistant. " +
	"Provide non-diagnostic advice, clearly indicate if the user should seek medical care, " +
	"and suggest follow-up steps and specialist types."

// Client generates a reply for a prompt under a system instruction.
type Client interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	if system == "" {
		system = DefaultSystemPrompt
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "[No response]", nil
	}
	return text, nil
}

// StaticClient returns a fixed reply for every prompt. It backs the
// service when no API key is configured and stands in for Gemini in tests.
type StaticClient struct {
	Reply string
}

func (s StaticClient) Generate(_ context.Context, _, _ string) (string, error) {
	if s.Reply == "" {
		return "[No response]", nil
	}
	return s.Reply, nil
}
