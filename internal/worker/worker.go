package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/kvianAR/Mindmate/internal/config"
	"github.com/kvianAR/Mindmate/internal/genai"
	"github.com/kvianAR/Mindmate/internal/models"
	"gorm.io/gorm"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, db *gorm.DB, pipeline *genai.Pipeline) error {
	srv, mux, err := newServer(cfg, db, pipeline)
	if err != nil {
		return err
	}

	// Run blocks and handles its own signal interception
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop function.
// Use this for embedded mode so the caller can coordinate shutdown.
func Start(cfg *config.Config, db *gorm.DB, pipeline *genai.Pipeline) (stop func(), err error) {
	srv, mux, err := newServer(cfg, db, pipeline)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, db *gorm.DB, pipeline *genai.Pipeline) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskGenerateDeck, handleGenerateDeck(logger, db, pipeline))

	logger.Info("Worker starting", "concurrency", 5, "redis", cfg.RedisURL)
	return srv, mux, nil
}

// handleGenerateDeck processes deck generation tasks: it runs the generation
// pipeline for the job's topic, persists the cards as the owner's flashcards,
// and records the outcome on the job.
func handleGenerateDeck(logger *slog.Logger, db *gorm.DB, pipeline *genai.Pipeline) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload struct {
			JobID uint `json:"job_id"`
		}
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Invalid payload - don't retry
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		var job models.GenerationJob
		if err := db.WithContext(ctx).First(&job, payload.JobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("Generation job not found", "job_id", payload.JobID)
				return fmt.Errorf("generation job not found: %w", asynq.SkipRetry)
			}
			// Database error - retryable
			return fmt.Errorf("failed to fetch generation job: %w", err)
		}

		logger.Info(
			"Processing deck:generate task",
			"job_id", job.JobID,
			"user_id", job.UserID,
			"topic", job.Topic,
		)

		db.Model(&job).Update("status", models.JobStatusProcessing)

		cards, err := pipeline.GenerateFlashcardsFromTopic(ctx, job.Topic, job.Count, job.Difficulty)
		if err != nil {
			db.Model(&job).Updates(map[string]interface{}{
				"status":        models.JobStatusFailed,
				"error_message": err.Error(),
			})
			logger.Error(
				"Deck generation failed",
				"job_id", job.JobID,
				"error", err.Error(),
			)
			return fmt.Errorf("deck generation failed: %w", err)
		}

		for _, card := range cards {
			flashcard := models.Flashcard{
				Front:  card.Front,
				Back:   card.Back,
				Topic:  job.Topic,
				UserID: job.UserID,
			}
			if err := db.WithContext(ctx).Create(&flashcard).Error; err != nil {
				db.Model(&job).Updates(map[string]interface{}{
					"status":        models.JobStatusFailed,
					"error_message": "Failed to save generated flashcards",
				})
				return fmt.Errorf("failed to save flashcard: %w", err)
			}
		}

		cardsJSON, err := json.Marshal(cards)
		if err != nil {
			db.Model(&job).Updates(map[string]interface{}{
				"status":        models.JobStatusFailed,
				"error_message": "Failed to marshal cards",
			})
			return fmt.Errorf("failed to marshal cards: %w", asynq.SkipRetry)
		}

		now := time.Now()
		if err := db.Model(&job).Updates(map[string]interface{}{
			"status":        models.JobStatusCompleted,
			"cards":         cardsJSON,
			"generated_at":  now,
			"error_message": "",
		}).Error; err != nil {
			return fmt.Errorf("failed to update generation job: %w", err)
		}

		logger.Info(
			"Deck generation completed",
			"job_id", job.JobID,
			"cards", len(cards),
		)

		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried >= maxRetry {
			logger.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
