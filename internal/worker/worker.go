package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/autoreels/autoreels/internal/db"
	"github.com/autoreels/autoreels/internal/models"
	"github.com/autoreels/autoreels/internal/queue"
	"github.com/autoreels/autoreels/internal/render"
	"github.com/autoreels/autoreels/internal/services"
	"github.com/google/uuid"
)

const (
	dequeueTimeout    = 5 * time.Second
	scheduleInterval  = 1 * time.Minute
	dueBatchSize      = 5
	renderJobTimeout  = 15 * time.Minute
	publishJobTimeout = 10 * time.Minute
)

// Worker consumes render and upload jobs. Render jobs script and encode a
// project; upload jobs publish a finished project to its platform. A ticker
// also sweeps for posts whose scheduled time has passed.
type Worker struct {
	db       *db.DB
	queue    *queue.Queue
	renderer *render.Renderer
	openai   *services.OpenAIService
	gemini   *services.GeminiService // nil when no API key is configured
	groq     *services.GroqService   // nil when no API key is configured
	youtube  *services.YouTubeService

	maxConcurrent int
}

func New(database *db.DB, q *queue.Queue, renderer *render.Renderer, openaiSvc *services.OpenAIService, geminiSvc *services.GeminiService, groqSvc *services.GroqService, youtubeSvc *services.YouTubeService, maxConcurrent int) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Worker{
		db:            database,
		queue:         q,
		renderer:      renderer,
		openai:        openaiSvc,
		gemini:        geminiSvc,
		groq:          groqSvc,
		youtube:       youtubeSvc,
		maxConcurrent: maxConcurrent,
	}
}

// Start runs the worker loops until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	log.Printf("[Worker] Starting (max %d concurrent renders)", w.maxConcurrent)

	go w.renderLoop(ctx)
	go w.uploadLoop(ctx)
	go w.scheduleLoop(ctx)

	<-ctx.Done()
	log.Println("[Worker] Shutting down")
}

func (w *Worker) renderLoop(ctx context.Context) {
	// Semaphore bounds concurrent ffmpeg processes
	sem := make(chan struct{}, w.maxConcurrent)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.DequeueRender(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[Worker] Render dequeue error: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if !acquire(ctx, sem) {
			return
		}
		go func(job *queue.RenderJob) {
			defer func() { <-sem }()

			jobCtx, cancel := context.WithTimeout(ctx, renderJobTimeout)
			defer cancel()

			if err := w.processRenderJob(jobCtx, job); err != nil {
				log.Printf("[Worker] Render job %s failed: %v", job.ProjectID, err)
			}
		}(job)
	}
}

func (w *Worker) uploadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.DequeueUpload(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[Worker] Upload dequeue error: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		jobCtx, cancel := context.WithTimeout(ctx, publishJobTimeout)
		if err := w.processUploadJob(jobCtx, job.PostID); err != nil {
			log.Printf("[Worker] Upload job %s failed: %v", job.PostID, err)
		}
		cancel()
	}
}

// scheduleLoop sweeps for posts whose scheduled time has passed and pushes
// them onto the upload queue. Claiming flips them to processing, so a sweep
// never double-enqueues.
func (w *Worker) scheduleLoop(ctx context.Context) {
	ticker := time.NewTicker(scheduleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			posts, err := w.db.ClaimDuePosts(ctx, dueBatchSize)
			if err != nil {
				log.Printf("[Worker] Due-post sweep failed: %v", err)
				continue
			}
			for _, post := range posts {
				if err := w.queue.EnqueueUpload(ctx, post.ID); err != nil {
					log.Printf("[Worker] Failed to enqueue upload for post %s: %v", post.ID, err)
					if markErr := w.db.MarkPostFailed(ctx, post.ID, "failed to enqueue upload: "+err.Error()); markErr != nil {
						log.Printf("[Worker] Failed to mark post %s failed: %v", post.ID, markErr)
					}
				}
			}
		}
	}
}

func (w *Worker) processRenderJob(ctx context.Context, job *queue.RenderJob) error {
	project, err := w.db.GetProject(ctx, job.ProjectID)
	if err != nil {
		return err
	}

	log.Printf("[Worker] Rendering project %s (niche=%q provider=%s manual=%v)",
		project.ID, project.Niche, job.Provider, job.IsManual)

	if err := w.db.UpdateProjectStatus(ctx, project.ID, models.ProjectStatusRendering); err != nil {
		return err
	}

	script, err := w.resolveScript(ctx, project, job)
	if err != nil {
		return w.failProject(project.ID, err)
	}

	meta, err := w.resolveMetadata(ctx, project, script)
	if err != nil {
		return w.failProject(project.ID, err)
	}

	scriptJSON, err := json.Marshal(script)
	if err != nil {
		return w.failProject(project.ID, fmt.Errorf("failed to encode script: %w", err))
	}
	if err := w.db.UpdateProjectScript(ctx, project.ID, string(scriptJSON), *meta); err != nil {
		return w.failProject(project.ID, err)
	}
	if err := w.db.UpdateProjectProgress(ctx, project.ID, 20); err != nil {
		log.Printf("[Worker] Progress update failed for %s: %v", project.ID, err)
	}

	videoURL, err := w.renderer.Render(ctx, render.RenderRequest{
		ProjectID:   project.ID,
		Script:      *script,
		DurationSec: float64(project.DurationSec),
		Logger:      log.Printf,
	})
	if err != nil {
		return w.failProject(project.ID, err)
	}

	if err := w.db.SetProjectVideoURL(ctx, project.ID, videoURL); err != nil {
		return err
	}

	log.Printf("[Worker] Project %s ready: %s", project.ID, videoURL)
	return nil
}

// resolveScript returns the script for a project: the stored manual script
// when present, otherwise a freshly generated one from the selected provider.
func (w *Worker) resolveScript(ctx context.Context, project *models.VideoProject, job *queue.RenderJob) (*models.Script, error) {
	if job.IsManual && project.ScriptText != nil && strings.TrimSpace(*project.ScriptText) != "" {
		return parseManualScript(*project.ScriptText), nil
	}

	provider := job.Provider
	if provider == "" && project.Provider != nil {
		provider = *project.Provider
	}

	sp, err := w.scriptProvider(provider)
	if err != nil {
		return nil, err
	}

	return sp.GenerateScript(ctx, project.Niche, project.Language, project.DurationSec, project.Style)
}

// scriptProvider maps a provider name to its backend. Unknown names fall back
// to openai, the default; a known name without a configured key is an error.
func (w *Worker) scriptProvider(provider string) (services.ScriptProvider, error) {
	switch provider {
	case "gemini":
		if w.gemini == nil {
			return nil, fmt.Errorf("gemini provider requested but GEMINI_API_KEY is not configured")
		}
		return w.gemini, nil
	case "groq":
		if w.groq == nil {
			return nil, fmt.Errorf("groq provider requested but GROQ_API_KEY is not configured")
		}
		return w.groq, nil
	default:
		return w.openai, nil
	}
}

func (w *Worker) resolveMetadata(ctx context.Context, project *models.VideoProject, script *models.Script) (*models.Metadata, error) {
	if project.Title != nil && *project.Title != "" {
		meta := &models.Metadata{Title: *project.Title}
		if project.Caption != nil {
			meta.Caption = *project.Caption
		}
		if project.Hashtags != nil {
			meta.Hashtags = *project.Hashtags
		}
		return meta, nil
	}

	return w.openai.GenerateMetadata(ctx, project.Niche, *script)
}

func (w *Worker) processUploadJob(ctx context.Context, postID uuid.UUID) error {
	post, err := w.db.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.Status == models.PostStatusPosted {
		log.Printf("[Worker] Post %s already posted, skipping", post.ID)
		return nil
	}

	project, err := w.db.GetProject(ctx, post.VideoProjectID)
	if err != nil {
		return w.failPost(post.ID, err)
	}

	if project.VideoURL == nil || *project.VideoURL == "" {
		return w.failPost(post.ID, fmt.Errorf("project %s has no rendered video", project.ID))
	}

	account, err := w.db.GetConnectedAccount(ctx, post.UserID, post.Platform)
	if err != nil {
		return w.failPost(post.ID, err)
	}

	meta := models.Metadata{}
	if project.Title != nil {
		meta.Title = *project.Title
	}
	if project.Caption != nil {
		meta.Caption = *project.Caption
	}
	if project.Hashtags != nil {
		meta.Hashtags = *project.Hashtags
	}

	result, err := w.youtube.Upload(ctx, account, *project.VideoURL, meta)
	if err != nil {
		return w.failPost(post.ID, err)
	}

	if err := w.db.MarkPostPosted(ctx, post.ID, result.VideoID, result.URL); err != nil {
		return err
	}

	log.Printf("[Worker] Post %s published: %s", post.ID, result.URL)
	return nil
}

// acquire takes a semaphore slot unless ctx is cancelled first, so shutdown
// never waits behind in-flight renders for a slot.
func acquire(ctx context.Context, sem chan struct{}) bool {
	select {
	case sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// parseManualScript accepts either the structured JSON form or raw text. Raw
// text becomes the hook with each further line a body line.
func parseManualScript(text string) *models.Script {
	var script models.Script
	if err := json.Unmarshal([]byte(text), &script); err == nil && len(script.Lines()) > 0 {
		return &script
	}

	lines := []string{}
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	if len(lines) == 0 {
		return &models.Script{}
	}

	return &models.Script{
		Hook:      lines[0],
		BodyLines: lines[1:],
	}
}

// failProject records the error on the project and returns it so the caller
// logs it once.
func (w *Worker) failProject(projectID uuid.UUID, cause error) error {
	// Status writes use a fresh context so a cancelled job still records its error
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.db.UpdateProjectError(ctx, projectID, cause.Error()); err != nil {
		log.Printf("[Worker] Failed to record error for project %s: %v", projectID, err)
	}
	return cause
}

func (w *Worker) failPost(postID uuid.UUID, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.db.MarkPostFailed(ctx, postID, cause.Error()); err != nil {
		log.Printf("[Worker] Failed to record error for post %s: %v", postID, err)
	}
	return cause
}
