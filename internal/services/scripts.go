package services

import (
	"context"

	"github.com/autoreels/autoreels/internal/models"
)

// ScriptProvider is the interface every script-generation backend implements.
// The worker picks the provider per job; downstream stages only see the
// resulting Script.
type ScriptProvider interface {
	GenerateScript(ctx context.Context, niche, language string, durationSec int, style *string) (*models.Script, error)
}
