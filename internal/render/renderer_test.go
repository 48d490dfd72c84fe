package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/autoreels/autoreels/internal/models"
	"github.com/autoreels/autoreels/internal/services"
	"github.com/google/uuid"
)

type fakeTTS struct {
	called bool
	err    error
}

func (f *fakeTTS) GenerateSpeech(ctx context.Context, text string) (*services.TTSResponse, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return &services.TTSResponse{AudioData: []byte("audio"), Format: "mp3"}, nil
}

func newTestRenderer(t *testing.T, tts services.TTSService) *Renderer {
	t.Helper()
	r, err := NewRenderer(tts, nil, nil, t.TempDir(), t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewRenderer returned error: %v", err)
	}
	return r
}

func TestRenderRejectsEmptyScript(t *testing.T) {
	tts := &fakeTTS{}
	r := newTestRenderer(t, tts)

	_, err := r.Render(context.Background(), RenderRequest{
		ProjectID:   uuid.New(),
		Script:      models.Script{BodyLines: []string{"  ", ""}},
		DurationSec: 30,
		Logger:      t.Logf,
	})
	if !errors.Is(err, ErrEmptyScript) {
		t.Fatalf("expected ErrEmptyScript, got %v", err)
	}
	if tts.called {
		t.Error("no synthesis should happen for an empty script")
	}
}

func TestRenderRejectsNonPositiveDuration(t *testing.T) {
	tts := &fakeTTS{}
	r := newTestRenderer(t, tts)

	_, err := r.Render(context.Background(), RenderRequest{
		ProjectID:   uuid.New(),
		Script:      models.Script{Hook: "Hello"},
		DurationSec: 0,
		Logger:      t.Logf,
	})
	if err == nil {
		t.Fatal("expected error for zero duration")
	}
	if tts.called {
		t.Error("no synthesis should happen for an invalid duration")
	}
}

func TestRenderSynthesisFailure(t *testing.T) {
	tts := &fakeTTS{err: errors.New("provider unavailable")}

	tempDir := t.TempDir()
	assetRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(assetRoot, "default.jpg"), []byte("fixture"), 0644); err != nil {
		t.Fatal(err)
	}

	// Encoder is nil: reaching the encode stage after a synthesis failure
	// would panic, so finishing with an error proves no encode was attempted.
	r, err := NewRenderer(tts, nil, nil, tempDir, assetRoot, false)
	if err != nil {
		t.Fatalf("NewRenderer returned error: %v", err)
	}

	_, err = r.Render(context.Background(), RenderRequest{
		ProjectID:   uuid.New(),
		Script:      models.Script{Hook: "Hello", BodyLines: []string{"World"}},
		DurationSec: 30,
		Logger:      t.Logf,
	})

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected *SynthesisError, got %v", err)
	}
	if !tts.called {
		t.Error("synthesis was never attempted")
	}

	// The subtitle file written concurrently must not survive the failure
	leftovers, err := filepath.Glob(filepath.Join(tempDir, "subs_*.srt"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp subtitle files left behind: %v", leftovers)
	}
}

func TestRenderFailsWithoutBackground(t *testing.T) {
	// assetRoot is an empty temp dir and the generated fallback is off
	tts := &fakeTTS{}
	r := newTestRenderer(t, tts)

	_, err := r.Render(context.Background(), RenderRequest{
		ProjectID:   uuid.New(),
		Script:      models.Script{Hook: "Hello"},
		DurationSec: 30,
		Logger:      t.Logf,
	})
	if !errors.Is(err, ErrBackgroundMissing) {
		t.Fatalf("expected ErrBackgroundMissing, got %v", err)
	}
	if tts.called {
		t.Error("no synthesis should happen without a background")
	}
}
