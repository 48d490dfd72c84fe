package services

import "context"

// ---------------------------------------------------------------------------
// TTSService — interface for speech-synthesis providers
// The render pipeline depends on this interface, not on a concrete provider,
// so narration stays swappable and testable.
// ---------------------------------------------------------------------------

// TTSResponse is the common response type from any TTS provider.
type TTSResponse struct {
	AudioData []byte
	Format    string // "mp3", "wav", etc.
}

// TTSService is the interface that any speech-synthesis provider must implement.
type TTSService interface {
	// GenerateSpeech converts text to audio using the provider's fixed
	// voice/model configuration.
	GenerateSpeech(ctx context.Context, text string) (*TTSResponse, error)
}
