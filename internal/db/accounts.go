package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/autoreels/autoreels/internal/models"
	"github.com/google/uuid"
)

// GetConnectedAccount returns the connected account for a platform, scoped to
// a user when userID is non-nil. Publishing without a connected account is an
// error the caller surfaces on the post.
func (db *DB) GetConnectedAccount(ctx context.Context, userID *uuid.UUID, platform string) (*models.Account, error) {
	query := `
		SELECT id, user_id, platform, access_token, refresh_token, status, created_at
		FROM accounts
		WHERE platform = $1 AND status = 'connected' AND ($2::uuid IS NULL OR user_id = $2)
		ORDER BY created_at DESC
		LIMIT 1`

	var a models.Account
	err := db.conn.QueryRowContext(ctx, query, platform, userID).Scan(
		&a.ID, &a.UserID, &a.Platform, &a.AccessToken, &a.RefreshToken, &a.Status, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no connected %s account", platform)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}
