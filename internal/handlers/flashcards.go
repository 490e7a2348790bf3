package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvianAR/Mindmate/internal/auth"
	"github.com/kvianAR/Mindmate/internal/models"
	"github.com/kvianAR/Mindmate/internal/query"
	"gorm.io/gorm"
)

// ListFlashcardsHandler returns the authenticated user's flashcards, filtered,
// sorted and paginated.
func ListFlashcardsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		params := query.ParseListParams(c.Request.URL.Query(), query.FlashcardSortFields)

		newQuery := func() *gorm.DB {
			q := db.Where("user_id = ?", userID)
			if params.Topic != "" {
				q = q.Where("topic = ?", params.Topic)
			}
			return q
		}

		cards, pagination, err := query.Paginate[models.Flashcard](c.Request.Context(), newQuery, params)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flashcards"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"flashcards": cards, "pagination": pagination})
	}
}

type createFlashcardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Topic string `json:"topic"`
}

// CreateFlashcardHandler creates a flashcard owned by the authenticated user.
func CreateFlashcardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req createFlashcardRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Front == "" || req.Back == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Front and back are required"})
			return
		}

		card := models.Flashcard{
			Front:  req.Front,
			Back:   req.Back,
			Topic:  req.Topic,
			UserID: userID,
		}
		if err := db.Create(&card).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create flashcard"})
			return
		}

		c.JSON(http.StatusOK, card)
	}
}

// DeleteFlashcardHandler deletes an owned flashcard. The ID is taken from the
// path parameter when present, falling back to the legacy ?id= query form.
func DeleteFlashcardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id := c.Param("id")
		if id == "" {
			id = c.Query("id")
		}
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Flashcard ID is required"})
			return
		}

		result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Flashcard{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete flashcard"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Flashcard deleted successfully"})
	}
}

type reviewRequest struct {
	Difficulty string `json:"difficulty"`
}

// ReviewFlashcardHandler records one review of an owned flashcard: the review
// count is incremented atomically in the store, the last-reviewed timestamp is
// set, and the difficulty is updated only when supplied.
func ReviewFlashcardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var card models.Flashcard
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&card).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard not found"})
			return
		}

		// Body is optional
		var req reviewRequest
		_ = c.ShouldBindJSON(&req)

		if req.Difficulty != "" && !models.ValidDifficulty(req.Difficulty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty must be easy, medium, or hard"})
			return
		}

		updates := map[string]interface{}{
			"review_count":  gorm.Expr("review_count + ?", 1),
			"last_reviewed": time.Now(),
		}
		if req.Difficulty != "" {
			updates["difficulty"] = req.Difficulty
		}

		if err := db.Model(&card).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update flashcard"})
			return
		}

		// Re-read so the response carries the incremented count
		if err := db.First(&card, card.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update flashcard"})
			return
		}

		c.JSON(http.StatusOK, card)
	}
}
