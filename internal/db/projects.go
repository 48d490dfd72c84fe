package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/autoreels/autoreels/internal/models"
	"github.com/google/uuid"
)

const projectColumns = `id, user_id, niche, language, duration_sec, style, provider, is_manual,
	status, progress, script_text, title, caption, hashtags, video_url, error_message,
	created_at, updated_at`

// CreateProject inserts a new project in the queued state and returns it.
func (db *DB) CreateProject(ctx context.Context, req models.CreateProjectRequest, durationSec int) (*models.VideoProject, error) {
	query := fmt.Sprintf(`
		INSERT INTO video_projects (niche, language, duration_sec, style, provider, is_manual, script_text, status, progress)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'queued', 0)
		RETURNING %s`, projectColumns)

	row := db.conn.QueryRowContext(ctx, query,
		req.Niche, req.Language, durationSec, req.Style, req.Provider, req.IsManual, req.ScriptText)

	return scanProject(row)
}

func (db *DB) GetProject(ctx context.Context, id uuid.UUID) (*models.VideoProject, error) {
	query := fmt.Sprintf(`SELECT %s FROM video_projects WHERE id = $1`, projectColumns)

	row := db.conn.QueryRowContext(ctx, query, id)
	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (db *DB) ListProjects(ctx context.Context, limit, offset int) ([]models.VideoProject, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM video_projects
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, projectColumns)

	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.VideoProject{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}

	return projects, rows.Err()
}

func (db *DB) CountProjects(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM video_projects`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

func (db *DB) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus) error {
	query := `UPDATE video_projects SET status = $2, updated_at = NOW() WHERE id = $1`

	_, err := db.conn.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	return nil
}

func (db *DB) UpdateProjectProgress(ctx context.Context, id uuid.UUID, progress int) error {
	query := `UPDATE video_projects SET progress = $2, updated_at = NOW() WHERE id = $1`

	_, err := db.conn.ExecContext(ctx, query, id, progress)
	if err != nil {
		return fmt.Errorf("failed to update project progress: %w", err)
	}
	return nil
}

// UpdateProjectScript stores the generated script JSON and metadata fields.
func (db *DB) UpdateProjectScript(ctx context.Context, id uuid.UUID, scriptJSON string, meta models.Metadata) error {
	query := `
		UPDATE video_projects
		SET script_text = $2, title = $3, caption = $4, hashtags = $5, updated_at = NOW()
		WHERE id = $1`

	_, err := db.conn.ExecContext(ctx, query, id, scriptJSON, meta.Title, meta.Caption, meta.Hashtags)
	if err != nil {
		return fmt.Errorf("failed to update project script: %w", err)
	}
	return nil
}

// SetProjectVideoURL marks a project ready with its published artifact URL.
func (db *DB) SetProjectVideoURL(ctx context.Context, id uuid.UUID, videoURL string) error {
	query := `
		UPDATE video_projects
		SET video_url = $2, status = 'ready', progress = 100, error_message = NULL, updated_at = NOW()
		WHERE id = $1`

	_, err := db.conn.ExecContext(ctx, query, id, videoURL)
	if err != nil {
		return fmt.Errorf("failed to set project video URL: %w", err)
	}
	return nil
}

func (db *DB) UpdateProjectError(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE video_projects
		SET status = 'failed', error_message = $2, updated_at = NOW()
		WHERE id = $1`

	_, err := db.conn.ExecContext(ctx, query, id, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update project error: %w", err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(s scanner) (*models.VideoProject, error) {
	var p models.VideoProject
	err := s.Scan(
		&p.ID, &p.UserID, &p.Niche, &p.Language, &p.DurationSec, &p.Style, &p.Provider, &p.IsManual,
		&p.Status, &p.Progress, &p.ScriptText, &p.Title, &p.Caption, &p.Hashtags, &p.VideoURL, &p.ErrorMessage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return &p, nil
}
