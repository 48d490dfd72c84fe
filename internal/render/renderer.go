package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/autoreels/autoreels/internal/models"
	"github.com/autoreels/autoreels/internal/services"
	"github.com/autoreels/autoreels/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Logger is the injected sink for progress and diagnostic text. Render
// steps write only through it, so they stay testable without capturing
// process-wide output.
type Logger func(format string, args ...interface{})

// RenderRequest is one unit of work: a script plus a target duration for a
// project. One request produces at most one output artifact.
type RenderRequest struct {
	ProjectID   uuid.UUID
	Script      models.Script
	DurationSec float64
	Logger      Logger // nil = log.Printf
}

// Renderer turns a script into a finished vertical video: narration
// synthesis and subtitle timing run concurrently, then the filter graph is
// composed, the encoder runs, and the artifact is uploaded.
type Renderer struct {
	tts              services.TTSService
	encoder          *Encoder
	storage          *storage.Storage
	tempDir          string
	assetRoot        string
	allowGeneratedBG bool
}

func NewRenderer(tts services.TTSService, encoder *Encoder, stor *storage.Storage, tempDir, assetRoot string, allowGeneratedBG bool) (*Renderer, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	return &Renderer{
		tts:              tts,
		encoder:          encoder,
		storage:          stor,
		tempDir:          tempDir,
		assetRoot:        assetRoot,
		allowGeneratedBG: allowGeneratedBG,
	}, nil
}

// Render executes the full pipeline and returns the public URL of the
// uploaded MP4. It either returns exactly one URL or exactly one error; no
// partial artifact is left in durable storage, and temporary files are
// removed on every exit path.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) (string, error) {
	logf := req.Logger
	if logf == nil {
		logf = log.Printf
	}

	logf("[Render] starting render for project %s (duration=%.0fs)", req.ProjectID, req.DurationSec)

	// Input checks before any filesystem side effects
	lines := req.Script.Lines()
	if len(lines) == 0 {
		return "", ErrEmptyScript
	}
	if req.DurationSec <= 0 {
		return "", fmt.Errorf("duration must be positive, got %g", req.DurationSec)
	}

	background, err := ResolveBackground(r.assetRoot, req.DurationSec, r.allowGeneratedBG)
	if err != nil {
		return "", err
	}
	logf("[Render] background: %s", background.Kind)

	// Temp files are namespaced by a fresh id so concurrent renders never
	// collide.
	renderID := uuid.New().String()
	subtitlePath := filepath.Join(r.tempDir, "subs_"+renderID+".srt")
	audioPath := filepath.Join(r.tempDir, "audio_"+renderID+".mp3")
	outputFileName := renderID + ".mp4"
	outputPath := filepath.Join(r.tempDir, outputFileName)

	defer r.cleanup(logf, subtitlePath, audioPath, outputPath)

	// Subtitles and narration derive from the same script and are
	// independent — run them concurrently, converge before composing.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cues, err := BuildCues(req.Script, req.DurationSec)
		if err != nil {
			return err
		}
		if err := WriteSRT(cues, subtitlePath); err != nil {
			return err
		}
		logf("[Render] wrote %d subtitle cues", len(cues))
		return nil
	})

	g.Go(func() error {
		resp, err := r.tts.GenerateSpeech(gctx, req.Script.FullText())
		if err != nil {
			return &SynthesisError{Err: err}
		}
		if err := os.WriteFile(audioPath, resp.AudioData, 0644); err != nil {
			return &SynthesisError{Err: fmt.Errorf("failed to write audio file: %w", err)}
		}
		logf("[Render] narration synthesized (%d bytes, %s)", len(resp.AudioData), resp.Format)
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", err
	}

	job := EncodeJob{
		Background:  background,
		AudioPath:   audioPath,
		FilterGraph: ComposeFilters(subtitlePath, ""),
		DurationSec: req.DurationSec,
		OutputPath:  outputPath,
	}

	if err := r.encoder.Encode(ctx, job, logf); err != nil {
		return "", err
	}

	return r.publish(ctx, logf, req.ProjectID, outputPath, outputFileName)
}

// publish uploads the encoded output under the per-project key and returns
// its public URL. The bucket-existence check is idempotent and degrades to a
// warning — already-exists is the common case.
func (r *Renderer) publish(ctx context.Context, logf Logger, projectID uuid.UUID, outputPath, outputFileName string) (string, error) {
	if err := r.storage.EnsureBucket(ctx); err != nil {
		logf("[Render] warning: bucket check failed (may already exist): %v", err)
	}

	storageKey := r.storage.GenerateStoragePath(projectID, outputFileName)

	if err := r.storage.UploadFile(ctx, storageKey, outputPath, "video/mp4"); err != nil {
		return "", &PublishError{Err: err}
	}

	publicURL := r.storage.GetPublicURL(storageKey)
	logf("[Render] published %s", publicURL)
	return publicURL, nil
}

// cleanup removes temp files best-effort; failures are logged, never
// escalated.
func (r *Renderer) cleanup(logf Logger, paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logf("[Render] warning: could not remove temp file %s: %v", path, err)
		}
	}
}
