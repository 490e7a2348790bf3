package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/kvianAR/Mindmate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsResponse struct {
	Overview struct {
		TotalNotes            int64 `json:"totalNotes"`
		TotalFlashcards       int64 `json:"totalFlashcards"`
		TotalSessions         int64 `json:"totalSessions"`
		TotalStudyTime        int   `json:"totalStudyTime"`
		TotalFlashcardReviews int   `json:"totalFlashcardReviews"`
		TopicsStudied         int   `json:"topicsStudied"`
	} `json:"overview"`
	RecentActivity struct {
		NotesCreated      int `json:"notesCreated"`
		FlashcardsCreated int `json:"flashcardsCreated"`
		SessionsCompleted int `json:"sessionsCompleted"`
	} `json:"recentActivity"`
	DailyActivity []struct {
		Date     string `json:"date"`
		Sessions int    `json:"sessions"`
		Duration int    `json:"duration"`
	} `json:"dailyActivity"`
	Recommendations []string `json:"recommendations"`
	TopTopics       []string `json:"topTopics"`
}

func TestAnalyticsAggregation(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{
		response: "Focus on algebra\nReview calculus basics",
	}))
	alice, token := createTestUser(t, db, "alice@example.com")
	bob, _ := createTestUser(t, db, "bob@example.com")

	old := time.Now().AddDate(0, 0, -45)

	// Recent and out-of-window records; lifetime totals must see both
	require.NoError(t, db.Create(&models.Note{Title: "N1", Content: "c", Topic: "calculus", UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Note{Title: "N2", Content: "c", Topic: "algebra", UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Note{Title: "Old", Content: "c", Topic: "history", CreatedAt: old, UserID: alice.ID}).Error)

	require.NoError(t, db.Create(&models.Flashcard{Front: "Q", Back: "A", ReviewCount: 4, UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Flashcard{Front: "Q", Back: "A", ReviewCount: 10, CreatedAt: old, UserID: alice.ID}).Error)

	require.NoError(t, db.Create(&models.StudySession{Topic: "calculus", DurationMinutes: 25, NotesStudied: []byte(`[]`), UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.StudySession{Topic: "algebra", DurationMinutes: 15, NotesStudied: []byte(`[]`), UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.StudySession{Topic: "history", DurationMinutes: 60, NotesStudied: []byte(`[]`), CreatedAt: old, UserID: alice.ID}).Error)

	// Another user's data must never leak into the aggregates
	require.NoError(t, db.Create(&models.Note{Title: "Bob", Content: "c", Topic: "chemistry", UserID: bob.ID}).Error)

	w := doRequest(t, r, http.MethodGet, "/api/analytics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp analyticsResponse
	decodeBody(t, w, &resp)

	assert.Equal(t, int64(3), resp.Overview.TotalNotes)
	assert.Equal(t, int64(2), resp.Overview.TotalFlashcards)
	assert.Equal(t, int64(3), resp.Overview.TotalSessions)

	// Windowed figures exclude the 45-day-old records
	assert.Equal(t, 40, resp.Overview.TotalStudyTime)
	assert.Equal(t, 4, resp.Overview.TotalFlashcardReviews)
	assert.Equal(t, 2, resp.Overview.TopicsStudied)

	assert.Equal(t, 2, resp.RecentActivity.NotesCreated)
	assert.Equal(t, 1, resp.RecentActivity.FlashcardsCreated)
	assert.Equal(t, 2, resp.RecentActivity.SessionsCompleted)

	require.Len(t, resp.DailyActivity, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), resp.DailyActivity[0].Date)
	assert.Equal(t, 2, resp.DailyActivity[0].Sessions)
	assert.Equal(t, 40, resp.DailyActivity[0].Duration)

	assert.ElementsMatch(t, []string{"calculus", "algebra"}, resp.TopTopics)
	assert.Equal(t, []string{"Focus on algebra", "Review calculus basics"}, resp.Recommendations)
}

func TestAnalyticsCustomWindow(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{response: ""}))
	alice, token := createTestUser(t, db, "alice@example.com")

	require.NoError(t, db.Create(&models.Note{
		Title: "Last week", Content: "c", Topic: "math",
		CreatedAt: time.Now().AddDate(0, 0, -10), UserID: alice.ID,
	}).Error)

	var resp analyticsResponse

	w := doRequest(t, r, http.MethodGet, "/api/analytics?days=7", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 0, resp.RecentActivity.NotesCreated)
	assert.Equal(t, int64(1), resp.Overview.TotalNotes)

	// Invalid values fall back to the default window
	w = doRequest(t, r, http.MethodGet, "/api/analytics?days=banana", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.RecentActivity.NotesCreated)
}

func TestAnalyticsRecommendationFailureDegrades(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{err: assert.AnError}))
	_, token := createTestUser(t, db, "alice@example.com")

	w := doRequest(t, r, http.MethodGet, "/api/analytics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp analyticsResponse
	decodeBody(t, w, &resp)
	assert.Empty(t, resp.Recommendations)
}
