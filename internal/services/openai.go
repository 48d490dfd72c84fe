package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/autoreels/autoreels/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// ---------------------------------------------------------------------------
// OpenAIService — script + metadata generation and TTS narration
// ---------------------------------------------------------------------------

type OpenAIService struct {
	client   *openai.Client
	ttsVoice string
}

func NewOpenAIService(apiKey, ttsVoice string) *OpenAIService {
	return &OpenAIService{
		client:   openai.NewClient(apiKey),
		ttsVoice: ttsVoice,
	}
}

const scriptSystemPrompt = `You are a short-form video scriptwriter. Respond only with JSON matching this schema:
{"hook": string, "body_lines": [string], "cta": string}
The hook grabs attention in one sentence. Body lines are 3-5 short punchy sentences. The cta asks viewers to follow. Keep the whole script readable aloud within the requested duration.`

// GenerateScript produces a structured script for a niche. On API failure it
// degrades to a canned script so a queued render still completes.
func (s *OpenAIService) GenerateScript(ctx context.Context, niche, language string, durationSec int, style *string) (*models.Script, error) {
	userPrompt := fmt.Sprintf("Write a %d-second vertical video script about %q in %s.", durationSec, niche, language)
	if style != nil && *style != "" {
		userPrompt += fmt.Sprintf(" Tone/style: %s.", *style)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
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
		log.Printf("[OpenAI] Script generation failed, using fallback: %v", err)
		return mockScript(niche), nil
	}

	if len(resp.Choices) == 0 {
		log.Printf("[OpenAI] Script generation returned no choices, using fallback")
		return mockScript(niche), nil
	}

	var script models.Script
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &script); err != nil {
		log.Printf("[OpenAI] Script response was not valid JSON, using fallback: %v", err)
		return mockScript(niche), nil
	}

	if len(script.Lines()) == 0 {
		return mockScript(niche), nil
	}

	return &script, nil
}

const metadataSystemPrompt = `You write YouTube Shorts metadata. Respond only with JSON matching this schema:
{"title": string, "caption": string, "hashtags": string}
Title under 100 characters. Caption is 1-2 sentences. Hashtags is a space-separated list of 3-5 tags including #shorts.`

// GenerateMetadata produces a title/caption/hashtags set for a script. Like
// GenerateScript, it degrades to a canned set on API failure.
func (s *OpenAIService) GenerateMetadata(ctx context.Context, niche string, script models.Script) (*models.Metadata, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: metadataSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Niche: %s\nScript: %s", niche, script.FullText())},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("[OpenAI] Metadata generation failed, using fallback: %v", err)
		return mockMetadata(niche), nil
	}

	if len(resp.Choices) == 0 {
		return mockMetadata(niche), nil
	}

	var meta models.Metadata
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &meta); err != nil {
		log.Printf("[OpenAI] Metadata response was not valid JSON, using fallback: %v", err)
		return mockMetadata(niche), nil
	}

	if meta.Title == "" {
		meta.Title = mockMetadata(niche).Title
	}

	return &meta, nil
}

// GenerateSpeech implements TTSService using the speech endpoint. Unlike the
// chat calls above there is no fallback — a render without narration is a
// failed render.
func (s *OpenAIService) GenerateSpeech(ctx context.Context, text string) (*TTSResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("tts text is empty")
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.SpeechVoice(s.ttsVoice),
	})
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Close()

	audioData, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("speech response was empty")
	}

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}

func mockScript(niche string) *models.Script {
	return &models.Script{
		Hook: fmt.Sprintf("Here's what nobody tells you about %s.", niche),
		BodyLines: []string{
			fmt.Sprintf("Most people get %s completely wrong.", niche),
			"The trick is starting small and staying consistent.",
			"Give it thirty days and track what changes.",
		},
		CTA: "Follow for more tips like this.",
	}
}

func mockMetadata(niche string) *models.Metadata {
	return &models.Metadata{
		Title:    fmt.Sprintf("The truth about %s", niche),
		Caption:  fmt.Sprintf("What nobody tells you about %s.", niche),
		Hashtags: "#shorts #" + strings.ReplaceAll(strings.ToLower(niche), " ", ""),
	}
}
