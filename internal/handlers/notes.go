package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kvianAR/Mindmate/internal/auth"
	"github.com/kvianAR/Mindmate/internal/models"
	"github.com/kvianAR/Mindmate/internal/query"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListNotesHandler returns the authenticated user's notes, filtered, sorted
// and paginated.
func ListNotesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		params := query.ParseListParams(c.Request.URL.Query(), query.NoteSortFields)

		newQuery := func() *gorm.DB {
			q := db.Where("user_id = ?", userID)
			if params.Topic != "" {
				q = q.Where("topic = ?", params.Topic)
			}
			if params.Search != "" {
				pattern := "%" + strings.ToLower(params.Search) + "%"
				q = q.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern)
			}
			return q
		}

		notes, pagination, err := query.Paginate[models.Note](c.Request.Context(), newQuery, params)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notes"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"notes": notes, "pagination": pagination})
	}
}

type createNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Topic   string   `json:"topic"`
	Tags    []string `json:"tags"`
}

// CreateNoteHandler creates a note owned by the authenticated user.
func CreateNoteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req createNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
			return
		}

		tags, err := tagsJSON(req.Tags)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
			return
		}

		note := models.Note{
			Title:   req.Title,
			Content: req.Content,
			Topic:   req.Topic,
			Tags:    tags,
			UserID:  userID,
		}
		if err := db.Create(&note).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
			return
		}

		c.JSON(http.StatusOK, note)
	}
}

// GetNoteHandler fetches a single note. A note owned by someone else is
// reported as not found, never forbidden.
func GetNoteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var note models.Note
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&note).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}

		c.JSON(http.StatusOK, note)
	}
}

// updateNoteRequest is an explicit patch: nil means "leave unchanged"; for
// Topic an explicit empty string clears the label.
type updateNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Topic   *string   `json:"topic"`
	Tags    *[]string `json:"tags"`
}

// UpdateNoteHandler applies a partial update to an owned note.
func UpdateNoteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var note models.Note
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&note).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}

		var req updateNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Content != nil {
			updates["content"] = *req.Content
		}
		if req.Topic != nil {
			updates["topic"] = *req.Topic
		}
		if req.Tags != nil {
			tags, err := tagsJSON(*req.Tags)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
				return
			}
			updates["tags"] = tags
		}

		if len(updates) > 0 {
			if err := db.Model(&note).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
				return
			}
			// Re-read so the response reflects the stored row
			if err := db.First(&note, note.ID).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
				return
			}
		}

		c.JSON(http.StatusOK, note)
	}
}

// DeleteNoteHandler deletes an owned note.
func DeleteNoteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		result := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.Note{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
	}
}

func tagsJSON(tags []string) (datatypes.JSON, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
