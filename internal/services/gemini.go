package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoreels/autoreels/internal/models"
	"google.golang.org/genai"
)

// ---------------------------------------------------------------------------
// GeminiService — alternative script provider
// Selected per project via the provider field; everything else in the
// pipeline is provider-agnostic.
// ---------------------------------------------------------------------------

type GeminiService struct {
	client *genai.Client
	model  string
}

func NewGeminiService(ctx context.Context, apiKey string) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client: client,
		model:  "gemini-2.0-flash",
	}, nil
}

// GenerateScript produces a structured script for a niche. Unlike the OpenAI
// provider there is no canned fallback here — a caller that picked Gemini
// explicitly should see its failures.
func (s *GeminiService) GenerateScript(ctx context.Context, niche, language string, durationSec int, style *string) (*models.Script, error) {
	prompt := fmt.Sprintf(`Write a %d-second vertical video script about %q in %s.
Respond only with JSON matching this schema:
{"hook": string, "body_lines": [string], "cta": string}
The hook grabs attention in one sentence. Body lines are 3-5 short punchy sentences. The cta asks viewers to follow.`, durationSec, niche, language)
	if style != nil && *style != "" {
		prompt += fmt.Sprintf("\nTone/style: %s.", *style)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned empty response")
	}

	var script models.Script
	if err := json.Unmarshal([]byte(text), &script); err != nil {
		return nil, fmt.Errorf("gemini response was not valid script JSON: %w", err)
	}

	if len(script.Lines()) == 0 {
		return nil, fmt.Errorf("gemini returned an empty script")
	}

	return &script, nil
}
