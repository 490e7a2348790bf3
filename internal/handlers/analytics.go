package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvianAR/Mindmate/internal/auth"
	"github.com/kvianAR/Mindmate/internal/genai"
	"github.com/kvianAR/Mindmate/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const defaultLookbackDays = 30

type analyticsOverview struct {
	TotalNotes            int64 `json:"totalNotes"`
	TotalFlashcards       int64 `json:"totalFlashcards"`
	TotalSessions         int64 `json:"totalSessions"`
	TotalStudyTime        int   `json:"totalStudyTime"`
	TotalFlashcardReviews int   `json:"totalFlashcardReviews"`
	TopicsStudied         int   `json:"topicsStudied"`
}

type analyticsRecentActivity struct {
	NotesCreated      int `json:"notesCreated"`
	FlashcardsCreated int `json:"flashcardsCreated"`
	SessionsCompleted int `json:"sessionsCompleted"`
}

type dailyActivityEntry struct {
	Date     string `json:"date"`
	Sessions int    `json:"sessions"`
	Duration int    `json:"duration"`
}

// AnalyticsHandler aggregates the user's study activity over a lookback
// window. The windowed record fetches and the lifetime counts are issued
// concurrently; they are read-only and all scoped to the same owner.
func AnalyticsHandler(db *gorm.DB, pipeline *genai.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultLookbackDays)))
		if err != nil || days <= 0 {
			days = defaultLookbackDays
		}
		startDate := time.Now().AddDate(0, 0, -days)

		var (
			notes      []models.Note
			flashcards []models.Flashcard
			sessions   []models.StudySession

			totalNotes      int64
			totalFlashcards int64
			totalSessions   int64
		)

		ctx := c.Request.Context()
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return db.WithContext(gctx).
				Select("id", "topic", "created_at").
				Where("user_id = ? AND created_at >= ?", userID, startDate).
				Find(&notes).Error
		})
		g.Go(func() error {
			return db.WithContext(gctx).
				Select("id", "topic", "review_count", "created_at").
				Where("user_id = ? AND created_at >= ?", userID, startDate).
				Find(&flashcards).Error
		})
		g.Go(func() error {
			return db.WithContext(gctx).
				Where("user_id = ? AND created_at >= ?", userID, startDate).
				Order("created_at desc").
				Limit(100).
				Find(&sessions).Error
		})
		g.Go(func() error {
			return db.WithContext(gctx).Model(&models.Note{}).
				Where("user_id = ?", userID).Count(&totalNotes).Error
		})
		g.Go(func() error {
			return db.WithContext(gctx).Model(&models.Flashcard{}).
				Where("user_id = ?", userID).Count(&totalFlashcards).Error
		})
		g.Go(func() error {
			return db.WithContext(gctx).Model(&models.StudySession{}).
				Where("user_id = ?", userID).Count(&totalSessions).Error
		})
		if err := g.Wait(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
			return
		}

		topics := distinctNoteTopics(notes)

		totalStudyTime := 0
		for _, s := range sessions {
			totalStudyTime += s.DurationMinutes
		}
		totalFlashcardReviews := 0
		for _, f := range flashcards {
			totalFlashcardReviews += f.ReviewCount
		}

		// Sessions are iterated newest-first, so day buckets appear in
		// first-encounter order. The order is implementation-defined, not a
		// contract.
		daily := []dailyActivityEntry{}
		dayIndex := map[string]int{}
		for _, s := range sessions {
			date := s.CreatedAt.UTC().Format("2006-01-02")
			i, seen := dayIndex[date]
			if !seen {
				daily = append(daily, dailyActivityEntry{Date: date})
				i = len(daily) - 1
				dayIndex[date] = i
			}
			daily[i].Sessions++
			daily[i].Duration += s.DurationMinutes
		}

		recommendations := pipeline.GenerateRecommendations(ctx, notes, sessions)

		topTopics := topics
		if len(topTopics) > 5 {
			topTopics = topTopics[:5]
		}

		c.JSON(http.StatusOK, gin.H{
			"overview": analyticsOverview{
				TotalNotes:            totalNotes,
				TotalFlashcards:       totalFlashcards,
				TotalSessions:         totalSessions,
				TotalStudyTime:        totalStudyTime,
				TotalFlashcardReviews: totalFlashcardReviews,
				TopicsStudied:         len(topics),
			},
			"recentActivity": analyticsRecentActivity{
				NotesCreated:      len(notes),
				FlashcardsCreated: len(flashcards),
				SessionsCompleted: len(sessions),
			},
			"dailyActivity":   daily,
			"recommendations": recommendations,
			"topTopics":       topTopics,
		})
	}
}

// distinctNoteTopics returns non-empty topics in first-encounter order.
func distinctNoteTopics(notes []models.Note) []string {
	seen := map[string]bool{}
	topics := []string{}
	for _, n := range notes {
		if n.Topic == "" || seen[n.Topic] {
			continue
		}
		seen[n.Topic] = true
		topics = append(topics, n.Topic)
	}
	return topics
}
