package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/autoreels/autoreels/internal/models"
	"github.com/google/uuid"
)

const postColumns = `id, user_id, video_project_id, platform, status, scheduled_at, posted_at,
	platform_post_id, platform_post_url, attempts, last_error, created_at`

// CreatePost schedules a post for a rendered project. A nil scheduledAt means
// publish as soon as the worker picks it up.
func (db *DB) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	query := fmt.Sprintf(`
		INSERT INTO posts (video_project_id, platform, status, scheduled_at)
		VALUES ($1, $2, 'scheduled', COALESCE($3, NOW()))
		RETURNING %s`, postColumns)

	row := db.conn.QueryRowContext(ctx, query, req.VideoProjectID, req.Platform, req.ScheduledAt)
	return scanPost(row)
}

func (db *DB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)

	row := db.conn.QueryRowContext(ctx, query, id)
	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ClaimDuePosts atomically moves due scheduled posts to processing and
// returns them. The UPDATE+RETURNING keeps concurrent workers from claiming
// the same post twice.
func (db *DB) ClaimDuePosts(ctx context.Context, limit int) ([]models.Post, error) {
	query := fmt.Sprintf(`
		UPDATE posts
		SET status = 'processing'
		WHERE id IN (
			SELECT id FROM posts
			WHERE status = 'scheduled' AND scheduled_at <= NOW()
			ORDER BY scheduled_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING %s`, postColumns)

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	return posts, rows.Err()
}

func (db *DB) MarkPostPosted(ctx context.Context, id uuid.UUID, platformPostID, platformPostURL string) error {
	query := `
		UPDATE posts
		SET status = 'posted', posted_at = NOW(), platform_post_id = $2, platform_post_url = $3, last_error = NULL
		WHERE id = $1`

	_, err := db.conn.ExecContext(ctx, query, id, platformPostID, platformPostURL)
	if err != nil {
		return fmt.Errorf("failed to mark post posted: %w", err)
	}
	return nil
}

func (db *DB) MarkPostFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE posts
		SET status = 'failed', attempts = attempts + 1, last_error = $2
		WHERE id = $1`

	_, err := db.conn.ExecContext(ctx, query, id, lastError)
	if err != nil {
		return fmt.Errorf("failed to mark post failed: %w", err)
	}
	return nil
}

// Dashboard counters

func (db *DB) CountPostsScheduledToday(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM posts
		WHERE status = 'scheduled' AND scheduled_at >= date_trunc('day', NOW())
		AND scheduled_at < date_trunc('day', NOW()) + interval '1 day'`

	var count int
	if err := db.conn.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scheduled posts: %w", err)
	}
	return count, nil
}

func (db *DB) CountPostsPostedToday(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM posts
		WHERE status = 'posted' AND posted_at >= date_trunc('day', NOW())`

	var count int
	if err := db.conn.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posted posts: %w", err)
	}
	return count, nil
}

func (db *DB) CountPostsFailed(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE status = 'failed'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count failed posts: %w", err)
	}
	return count, nil
}

func scanPost(s scanner) (*models.Post, error) {
	var p models.Post
	err := s.Scan(
		&p.ID, &p.UserID, &p.VideoProjectID, &p.Platform, &p.Status, &p.ScheduledAt, &p.PostedAt,
		&p.PlatformPostID, &p.PlatformPostURL, &p.Attempts, &p.LastError, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &p, nil
}
