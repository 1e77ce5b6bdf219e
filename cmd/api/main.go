package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/AminWork/IntelligentApply/internal/config"
	"github.com/AminWork/IntelligentApply/internal/conversation"
	"github.com/AminWork/IntelligentApply/internal/http"
	"github.com/AminWork/IntelligentApply/internal/llm"
	"github.com/AminWork/IntelligentApply/internal/mailer"
	"github.com/AminWork/IntelligentApply/internal/match"
	"github.com/AminWork/IntelligentApply/internal/positions"
	"github.com/AminWork/IntelligentApply/internal/resume"
	"github.com/AminWork/IntelligentApply/internal/storage"
	"github.com/AminWork/IntelligentApply/internal/vecstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	positionRepo := storage.NewPositionRepo(db)
	applicantRepo := storage.NewApplicantRepo(db)
	applicationRepo := storage.NewApplicationRepo(db)

	// Open the vector store. Startup recovers the index from the vector
	// file when the persisted index diverges.
	store, err := vecstore.Open(cfg.VectorDir, cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("Failed to open vector store: %v", err)
	}
	defer func() {
		_ = store.Close()
	}()
	info := store.Info()
	slog.Info("Vector store ready", "dir", cfg.VectorDir, "dimension", info.Dimension, "live", info.LiveCount)

	// LLM clients
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDim)

	// Ingestion pipeline
	scraper := positions.NewScraper(cfg.ScrapeBaseURL, cfg.ScrapeMaxPages, cfg.ScrapeWindowDays, logger)
	pipeline := positions.NewPipeline(scraper, llmClient, embedder, positionRepo, store, logger)

	// Conversation engine
	matcher := match.NewEngine(embedder, store, positionRepo, logger)
	drafter := mailer.NewDrafter(llmClient)
	engine := conversation.NewEngine(
		llmClient,
		resume.NewParser(llmClient),
		resume.NewExtractor(llmClient),
		matcher,
		drafter,
		applicantRepo,
		applicationRepo,
		positionRepo,
		cfg.FollowUpDays,
		logger,
	)
	slog.Info("Conversation engine initialized", "follow_up_days", cfg.FollowUpDays)

	// Create router with dependencies
	deps := &http.Deps{
		VectorStore: store,
		DB:          db,
		Engine:      engine,
		Sessions:    conversation.NewRegistry(),
		Pipeline:    pipeline,
		Positions:   positionRepo,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
