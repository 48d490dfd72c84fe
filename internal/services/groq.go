package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoreels/autoreels/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// ---------------------------------------------------------------------------
// GroqService — alternative script provider
// Groq exposes an OpenAI-compatible API, so the same client works with a
// different base URL and model.
// ---------------------------------------------------------------------------

const groqBaseURL = "https://api.groq.com/openai/v1"

type GroqService struct {
	client *openai.Client
	model  string
}

func NewGroqService(apiKey string) *GroqService {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	return &GroqService{
		client: openai.NewClientWithConfig(cfg),
		model:  "llama-3.3-70b-versatile",
	}
}

// GenerateScript produces a structured script for a niche. Like Gemini, a
// caller that picked Groq explicitly should see its failures — no canned
// fallback here.
func (s *GroqService) GenerateScript(ctx context.Context, niche, language string, durationSec int, style *string) (*models.Script, error) {
	userPrompt := fmt.Sprintf("Write a %d-second vertical video script about %q in %s.", durationSec, niche, language)
	if style != nil && *style != "" {
		userPrompt += fmt.Sprintf(" Tone/style: %s.", *style)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scriptSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("groq request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("groq returned no choices")
	}

	var script models.Script
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &script); err != nil {
		return nil, fmt.Errorf("groq response was not valid script JSON: %w", err)
	}

	if len(script.Lines()) == 0 {
		return nil, fmt.Errorf("groq returned an empty script")
	}

	return &script, nil
}
