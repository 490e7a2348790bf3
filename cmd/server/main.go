package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kvianAR/Mindmate/internal/auth"
	"github.com/kvianAR/Mindmate/internal/config"
	"github.com/kvianAR/Mindmate/internal/database"
	"github.com/kvianAR/Mindmate/internal/genai"
	"github.com/kvianAR/Mindmate/internal/handlers"
	"github.com/kvianAR/Mindmate/internal/health"
	"github.com/kvianAR/Mindmate/internal/ratelimit"
	"github.com/kvianAR/Mindmate/internal/worker"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	generator := genai.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AIStubMode)
	pipeline := genai.NewPipeline(generator, logger)

	// Standalone worker mode: process generation tasks and nothing else
	if len(os.Args) > 1 && os.Args[1] == "worker" {
		if err := worker.Run(cfg, db, pipeline); err != nil {
			log.Fatalf("Worker failed: %v", err)
		}
		return
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.Env == "development" {
		if err := database.SeedDevData(db); err != nil {
			log.Printf("Warning: failed to seed dev data: %v", err)
		}
	}

	if err := worker.InitClient(cfg.RedisURL); err != nil {
		log.Fatalf("Failed to initialize task client: %v", err)
	}
	defer worker.CloseClient()

	stopWorker, err := worker.Start(cfg, db, pipeline)
	if err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
	defer stopWorker()

	limiter, err := ratelimit.New(cfg.RedisURL, cfg.AIRateLimit, logger)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer limiter.Close()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.GET("/health", gin.WrapF(health.Handler))

	api := r.Group("/api")
	api.POST("/auth/signup", auth.SignupHandler(db, cfg.JWTSecret))
	api.POST("/auth/login", auth.LoginHandler(db, cfg.JWTSecret))

	protected := api.Group("", auth.RequireAuth(cfg.JWTSecret))

	protected.GET("/notes", handlers.ListNotesHandler(db))
	protected.POST("/notes", handlers.CreateNoteHandler(db))
	protected.GET("/notes/:id", handlers.GetNoteHandler(db))
	protected.PUT("/notes/:id", handlers.UpdateNoteHandler(db))
	protected.DELETE("/notes/:id", handlers.DeleteNoteHandler(db))

	protected.GET("/flashcards", handlers.ListFlashcardsHandler(db))
	protected.POST("/flashcards", handlers.CreateFlashcardHandler(db))
	protected.DELETE("/flashcards", handlers.DeleteFlashcardHandler(db))
	protected.DELETE("/flashcards/:id", handlers.DeleteFlashcardHandler(db))
	protected.PUT("/flashcards/:id/review", handlers.ReviewFlashcardHandler(db))

	protected.POST("/sessions", handlers.CreateSessionHandler(db))
	protected.GET("/sessions", handlers.ListSessionsHandler(db))

	protected.GET("/analytics", handlers.AnalyticsHandler(db, pipeline))

	ai := protected.Group("/ai", limiter.Middleware())
	ai.POST("/summary", handlers.SummaryHandler(pipeline))
	ai.POST("/flashcards", handlers.GenerateFlashcardsHandler(db, pipeline))
	ai.POST("/decks", handlers.CreateDeckHandler(db))
	ai.GET("/decks/:id", handlers.GetDeckHandler(db))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err.Error())
	}
}
