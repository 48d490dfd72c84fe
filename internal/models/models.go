package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Enums
type ProjectStatus string

const (
	ProjectStatusQueued    ProjectStatus = "queued"
	ProjectStatusRendering ProjectStatus = "rendering"
	ProjectStatusReady     ProjectStatus = "ready"
	ProjectStatusFailed    ProjectStatus = "failed"
)

type PostStatus string

const (
	PostStatusScheduled  PostStatus = "scheduled"
	PostStatusProcessing PostStatus = "processing"
	PostStatusPosted     PostStatus = "posted"
	PostStatusFailed     PostStatus = "failed"
)

type AccountStatus string

const (
	AccountStatusConnected    AccountStatus = "connected"
	AccountStatusDisconnected AccountStatus = "disconnected"
)

// Script is the fixed schema every script provider must return.
// Concatenating hook, body lines, and cta (non-empty entries only, in that
// order) yields the full narration text.
type Script struct {
	Hook      string   `json:"hook"`
	BodyLines []string `json:"body_lines"`
	CTA       string   `json:"cta"`
}

// Lines returns the non-empty script lines in narration order.
func (s Script) Lines() []string {
	raw := make([]string, 0, len(s.BodyLines)+2)
	raw = append(raw, s.Hook)
	raw = append(raw, s.BodyLines...)
	raw = append(raw, s.CTA)

	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// FullText returns the space-joined narration text.
func (s Script) FullText() string {
	return strings.Join(s.Lines(), " ")
}

// Metadata is the title/caption/hashtags set generated alongside a script.
type Metadata struct {
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	Hashtags string `json:"hashtags"`
}

// Models

type VideoProject struct {
	ID           uuid.UUID     `json:"id"`
	UserID       *uuid.UUID    `json:"user_id,omitempty"`
	Niche        string        `json:"niche"`
	Language     string        `json:"language"`
	DurationSec  int           `json:"duration_sec"`
	Style        *string       `json:"style,omitempty"`
	Provider     *string       `json:"provider,omitempty"` // "openai" (default) or "gemini"
	IsManual     bool          `json:"is_manual"`
	Status       ProjectStatus `json:"status"`
	Progress     int           `json:"progress"`
	ScriptText   *string       `json:"script_text,omitempty"` // JSON-encoded Script
	Title        *string       `json:"title,omitempty"`
	Caption      *string       `json:"caption,omitempty"`
	Hashtags     *string       `json:"hashtags,omitempty"`
	VideoURL     *string       `json:"video_url,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type Post struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	VideoProjectID  uuid.UUID  `json:"video_project_id"`
	Platform        string     `json:"platform"` // only "youtube" is supported
	Status          PostStatus `json:"status"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
	PlatformPostID  *string    `json:"platform_post_id,omitempty"`
	PlatformPostURL *string    `json:"platform_post_url,omitempty"`
	Attempts        int        `json:"attempts"`
	LastError       *string    `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Account stores a user's OAuth tokens for a publishing platform.
type Account struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Platform     string        `json:"platform"`
	AccessToken  string        `json:"-"`
	RefreshToken string        `json:"-"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// DTOs for API responses

type CreateProjectRequest struct {
	Niche       string  `json:"niche"`
	Language    string  `json:"language"`
	DurationSec *int    `json:"duration_sec,omitempty"` // Default: 30
	Style       *string `json:"style,omitempty"`
	Provider    *string `json:"provider,omitempty"`
	ScriptText  *string `json:"script_text,omitempty"` // Manual script (raw text, becomes the hook)
	IsManual    bool    `json:"is_manual"`
}

type CreateProjectResponse struct {
	ProjectID uuid.UUID     `json:"project_id"`
	Status    ProjectStatus `json:"status"`
}

type CreatePostRequest struct {
	VideoProjectID uuid.UUID  `json:"video_project_id"`
	Platform       string     `json:"platform"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
}

type ListProjectsResponse struct {
	Projects []VideoProject `json:"projects"`
	Total    int            `json:"total"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
}

// StatsResponse mirrors the dashboard counters: posts scheduled today,
// posted today, and failed overall.
type StatsResponse struct {
	Scheduled int `json:"scheduled"`
	Posted    int `json:"posted"`
	Failed    int `json:"failed"`
}
