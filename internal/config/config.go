package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort            string
	WorkerEnabled      bool
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// OpenAI (script/metadata generation + TTS narration)
	OpenAIKey      string
	OpenAITTSVoice string

	// Alternative script providers
	GeminiKey string
	GroqKey   string

	// Render
	FFmpegPath         string // Explicit ffmpeg binary path (empty = probe known locations)
	TempDir            string
	AssetRoot          string // Directory holding default.mp4 / default.jpg backgrounds
	AllowGeneratedBG   bool   // When true, a missing background falls back to a generated color field
	DefaultDurationSec int

	// YouTube (OAuth app credentials; per-user tokens live in the accounts table)
	GoogleClientID     string
	GoogleClientSecret string

	// Worker
	MaxConcurrentJobs int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:               getEnv("API_PORT", "8080"),
		WorkerEnabled:         getEnvBool("WORKER_ENABLED", true),
		BackendAPIKey:         getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins:    getEnv("CORS_ALLOWED_ORIGINS", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "videos"),
		OpenAIKey:             getEnv("OPENAI_API_KEY", ""),
		OpenAITTSVoice:        getEnv("OPENAI_TTS_VOICE", "alloy"),
		GeminiKey:             getEnv("GEMINI_API_KEY", ""),
		GroqKey:               getEnv("GROQ_API_KEY", ""),
		FFmpegPath:            getEnv("FFMPEG_PATH", ""),
		TempDir:               getEnv("RENDER_TEMP_DIR", "/tmp/autoreels"),
		AssetRoot:             getEnv("RENDER_ASSET_ROOT", "assets/broll"),
		AllowGeneratedBG:      getEnvBool("RENDER_ALLOW_GENERATED_BG", false),
		DefaultDurationSec:    getEnvInt("RENDER_DEFAULT_DURATION_SEC", 30),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		MaxConcurrentJobs:     getEnvInt("MAX_CONCURRENT_JOBS", 2),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
