package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/autoreels/autoreels/internal/db"
	"github.com/autoreels/autoreels/internal/models"
	"github.com/autoreels/autoreels/internal/queue"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handlers struct {
	db                 *db.DB
	queue              *queue.Queue
	defaultDurationSec int
}

func NewHandlers(database *db.DB, q *queue.Queue, defaultDurationSec int) *Handlers {
	return &Handlers{
		db:                 database,
		queue:              q,
		defaultDurationSec: defaultDurationSec,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateProject validates the request, inserts a queued project, and pushes a
// render job. The response carries only the id and status; clients poll
// GetProject for progress.
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Niche) == "" {
		respondError(w, http.StatusBadRequest, "niche is required")
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if req.IsManual && (req.ScriptText == nil || strings.TrimSpace(*req.ScriptText) == "") {
		respondError(w, http.StatusBadRequest, "script_text is required for manual projects")
		return
	}

	durationSec := h.defaultDurationSec
	if req.DurationSec != nil {
		if *req.DurationSec < 5 || *req.DurationSec > 180 {
			respondError(w, http.StatusBadRequest, "duration_sec must be between 5 and 180")
			return
		}
		durationSec = *req.DurationSec
	}

	provider := "openai"
	if req.Provider != nil {
		if !isValidProvider(*req.Provider) {
			respondError(w, http.StatusBadRequest, "provider must be 'openai', 'gemini', or 'groq'")
			return
		}
		provider = *req.Provider
	}
	req.Provider = &provider

	project, err := h.db.CreateProject(r.Context(), req, durationSec)
	if err != nil {
		log.Printf("[API] Failed to create project: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	if err := h.queue.EnqueueRender(r.Context(), project.ID, provider, req.IsManual); err != nil {
		log.Printf("[API] Failed to enqueue render for %s: %v", project.ID, err)
		if markErr := h.db.UpdateProjectError(r.Context(), project.ID, "failed to enqueue render job"); markErr != nil {
			log.Printf("[API] Failed to mark project %s failed: %v", project.ID, markErr)
		}
		respondError(w, http.StatusInternalServerError, "failed to enqueue render job")
		return
	}

	respondJSON(w, http.StatusAccepted, models.CreateProjectResponse{
		ProjectID: project.ID,
		Status:    project.Status,
	})
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := h.db.GetProject(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 20, 1, 100)
	offset := parseIntParam(r, "offset", 0, 0, 1<<30)

	projects, err := h.db.ListProjects(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[API] Failed to list projects: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	total, err := h.db.CountProjects(r.Context())
	if err != nil {
		log.Printf("[API] Failed to count projects: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	respondJSON(w, http.StatusOK, models.ListProjectsResponse{
		Projects: projects,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

// CreatePost schedules a rendered project for publishing. The scheduled time
// defaults to now; the worker's sweep picks it up within a minute.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Platform == "" {
		req.Platform = "youtube"
	}
	if req.Platform != "youtube" {
		respondError(w, http.StatusBadRequest, "platform must be 'youtube'")
		return
	}

	project, err := h.db.GetProject(r.Context(), req.VideoProjectID)
	if err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	if project.Status != models.ProjectStatusReady || project.VideoURL == nil {
		respondError(w, http.StatusConflict, "project has no rendered video yet")
		return
	}

	post, err := h.db.CreatePost(r.Context(), req)
	if err != nil {
		log.Printf("[API] Failed to create post: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	respondJSON(w, http.StatusAccepted, post)
}

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	scheduled, err := h.db.CountPostsScheduledToday(r.Context())
	if err != nil {
		log.Printf("[API] Stats query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	posted, err := h.db.CountPostsPostedToday(r.Context())
	if err != nil {
		log.Printf("[API] Stats query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	failed, err := h.db.CountPostsFailed(r.Context())
	if err != nil {
		log.Printf("[API] Stats query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, models.StatsResponse{
		Scheduled: scheduled,
		Posted:    posted,
		Failed:    failed,
	})
}

func isValidProvider(provider string) bool {
	switch provider {
	case "openai", "gemini", "groq":
		return true
	}
	return false
}

func parseIntParam(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
