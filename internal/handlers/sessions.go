package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kvianAR/Mindmate/internal/auth"
	"github.com/kvianAR/Mindmate/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type createSessionRequest struct {
	Topic              string `json:"topic"`
	Duration           int    `json:"duration"`
	NotesStudied       []uint `json:"notesStudied"`
	FlashcardsReviewed int    `json:"flashcardsReviewed"`
}

// CreateSessionHandler appends a study session to the user's log. Sessions
// are immutable once created.
func CreateSessionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Duration <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duration is required"})
			return
		}

		if req.NotesStudied == nil {
			req.NotesStudied = []uint{}
		}
		notesStudied, err := json.Marshal(req.NotesStudied)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		session := models.StudySession{
			Topic:              req.Topic,
			DurationMinutes:    req.Duration,
			FlashcardsReviewed: req.FlashcardsReviewed,
			NotesStudied:       datatypes.JSON(notesStudied),
			UserID:             userID,
		}
		if err := db.Create(&session).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		c.JSON(http.StatusOK, session)
	}
}

// ListSessionsHandler returns the user's most recent study sessions, newest
// first, bounded at 100.
func ListSessionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		sessions := []models.StudySession{}
		if err := db.Where("user_id = ?", userID).
			Order("created_at desc").
			Limit(100).
			Find(&sessions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"sessions": sessions})
	}
}
