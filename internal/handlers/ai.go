package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kvianAR/Mindmate/internal/auth"
	"github.com/kvianAR/Mindmate/internal/genai"
	"github.com/kvianAR/Mindmate/internal/models"
	"github.com/kvianAR/Mindmate/internal/worker"
	"gorm.io/gorm"
)

type summaryRequest struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// SummaryHandler generates a study summary for the supplied topic and content.
func SummaryHandler(pipeline *genai.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req summaryRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" || req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Topic and content are required"})
			return
		}

		summary, err := pipeline.Summarize(c.Request.Context(), req.Topic, req.Content)
		if err != nil {
			var genErr *genai.GenerationError
			if errors.As(err, &genErr) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": genErr.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate summary"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"summary": summary})
	}
}

type generateFlashcardsRequest struct {
	Topic          string `json:"topic"`
	Content        string `json:"content"`
	SaveToDatabase bool   `json:"saveToDatabase"`
}

// GenerateFlashcardsHandler generates flashcards from note content and
// optionally persists them for the authenticated user.
func GenerateFlashcardsHandler(db *gorm.DB, pipeline *genai.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req generateFlashcardsRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" || req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Topic and content are required"})
			return
		}

		cards, err := pipeline.GenerateFlashcards(c.Request.Context(), req.Topic, req.Content)
		if err != nil {
			var genErr *genai.GenerationError
			if errors.As(err, &genErr) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": genErr.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate flashcards"})
			return
		}

		saved := 0
		if req.SaveToDatabase {
			for _, card := range cards {
				flashcard := models.Flashcard{
					Front:  card.Front,
					Back:   card.Back,
					Topic:  req.Topic,
					UserID: userID,
				}
				if err := db.Create(&flashcard).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save flashcards"})
					return
				}
				saved++
			}
		}

		c.JSON(http.StatusOK, gin.H{"flashcards": cards, "saved": saved})
	}
}

type createDeckRequest struct {
	Topic      string `json:"topic"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
}

// CreateDeckHandler starts an asynchronous deck generation job. If a job for
// the same topic is already pending or processing for this user, that job is
// returned instead of creating a duplicate.
func CreateDeckHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req createDeckRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
			return
		}
		if req.Count <= 0 {
			req.Count = genai.DefaultDeckSize
		}
		if req.Count > genai.MaxDeckSize {
			req.Count = genai.MaxDeckSize
		}
		if req.Difficulty == "" {
			req.Difficulty = models.DifficultyMedium
		}
		if !models.ValidDifficulty(req.Difficulty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty must be easy, medium, or hard"})
			return
		}

		var existing models.GenerationJob
		result := db.Where("user_id = ? AND topic = ? AND status IN ?",
			userID, req.Topic, []string{models.JobStatusPending, models.JobStatusProcessing}).
			First(&existing)
		if result.Error == nil {
			c.JSON(http.StatusAccepted, existing)
			return
		}

		job := models.GenerationJob{
			JobID:      uuid.New().String(),
			UserID:     userID,
			Topic:      req.Topic,
			Count:      req.Count,
			Difficulty: req.Difficulty,
			Status:     models.JobStatusPending,
		}
		if err := db.Create(&job).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create generation job"})
			return
		}

		if err := worker.EnqueueGenerateDeck(job.ID); err != nil {
			db.Model(&job).Updates(map[string]interface{}{
				"status":        models.JobStatusFailed,
				"error_message": "Failed to enqueue generation task",
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue deck generation"})
			return
		}

		c.JSON(http.StatusAccepted, job)
	}
}

// GetDeckHandler returns the state of an owned generation job; completed jobs
// include the generated cards.
func GetDeckHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var job models.GenerationJob
		if err := db.Where("job_id = ? AND user_id = ?", c.Param("id"), userID).First(&job).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Generation job not found"})
			return
		}

		c.JSON(http.StatusOK, job)
	}
}
