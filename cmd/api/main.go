package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autoreels/autoreels/internal/api"
	"github.com/autoreels/autoreels/internal/config"
	"github.com/autoreels/autoreels/internal/db"
	"github.com/autoreels/autoreels/internal/queue"
	"github.com/autoreels/autoreels/internal/render"
	"github.com/autoreels/autoreels/internal/services"
	"github.com/autoreels/autoreels/internal/storage"
	"github.com/autoreels/autoreels/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("Connected to database")

	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer q.Close()
	log.Println("Connected to redis")

	stor := storage.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)

	encoder, err := render.NewEncoder(cfg.FFmpegPath)
	if err != nil {
		log.Fatalf("Failed to resolve encoder: %v", err)
	}
	log.Printf("Using encoder at %s", encoder.BinPath())

	openaiSvc := services.NewOpenAIService(cfg.OpenAIKey, cfg.OpenAITTSVoice)

	var geminiSvc *services.GeminiService
	if cfg.GeminiKey != "" {
		geminiSvc, err = services.NewGeminiService(context.Background(), cfg.GeminiKey)
		if err != nil {
			log.Fatalf("Failed to create gemini client: %v", err)
		}
	}

	var groqSvc *services.GroqService
	if cfg.GroqKey != "" {
		groqSvc = services.NewGroqService(cfg.GroqKey)
	}

	youtubeSvc := services.NewYouTubeService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	renderer, err := render.NewRenderer(openaiSvc, encoder, stor, cfg.TempDir, cfg.AssetRoot, cfg.AllowGeneratedBG)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WorkerEnabled {
		w := worker.New(database, q, renderer, openaiSvc, geminiSvc, groqSvc, youtubeSvc, cfg.MaxConcurrentJobs)
		go w.Start(ctx)
	} else {
		log.Println("Worker disabled (WORKER_ENABLED=false)")
	}

	handlers := api.NewHandlers(database, q, cfg.DefaultDurationSec)
	router := api.NewRouter(handlers, cfg.BackendAPIKey, cfg.CorsAllowedOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("API listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel() // stop worker loops

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
