package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kvianAR/Mindmate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFlashcardValidation(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{}))
	_, token := createTestUser(t, db, "alice@example.com")

	w := doRequest(t, r, http.MethodPost, "/api/flashcards", token, map[string]interface{}{
		"front": "only a question",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Front and back are required")
}

func TestReviewFlashcard(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{}))
	alice, token := createTestUser(t, db, "alice@example.com")

	card := models.Flashcard{Front: "Q", Back: "A", Topic: "math", UserID: alice.ID}
	require.NoError(t, db.Create(&card).Error)
	path := fmt.Sprintf("/api/flashcards/%d/review", card.ID)

	// Review without a body: count increments, difficulty stays unrated
	w := doRequest(t, r, http.MethodPut, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reviewed models.Flashcard
	decodeBody(t, w, &reviewed)
	assert.Equal(t, 1, reviewed.ReviewCount)
	assert.NotNil(t, reviewed.LastReviewed)
	assert.Equal(t, "", reviewed.Difficulty)

	// Second review increments again and records the supplied difficulty
	w = doRequest(t, r, http.MethodPut, path, token, map[string]interface{}{"difficulty": "hard"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &reviewed)
	assert.Equal(t, 2, reviewed.ReviewCount)
	assert.Equal(t, "hard", reviewed.Difficulty)

	// A review without a difficulty leaves the previous rating alone
	w = doRequest(t, r, http.MethodPut, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &reviewed)
	assert.Equal(t, 3, reviewed.ReviewCount)
	assert.Equal(t, "hard", reviewed.Difficulty)
}

func TestReviewFlashcardInvalidDifficulty(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{}))
	alice, token := createTestUser(t, db, "alice@example.com")

	card := models.Flashcard{Front: "Q", Back: "A", UserID: alice.ID}
	require.NoError(t, db.Create(&card).Error)

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/flashcards/%d/review", card.ID), token,
		map[string]interface{}{"difficulty": "impossible"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The failed review must not count
	var check models.Flashcard
	require.NoError(t, db.First(&check, card.ID).Error)
	assert.Equal(t, 0, check.ReviewCount)
	assert.Nil(t, check.LastReviewed)
}

func TestReviewFlashcardOwnerScope(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{}))
	alice, _ := createTestUser(t, db, "alice@example.com")
	_, bobToken := createTestUser(t, db, "bob@example.com")

	card := models.Flashcard{Front: "Q", Back: "A", UserID: alice.ID}
	require.NoError(t, db.Create(&card).Error)

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/flashcards/%d/review", card.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFlashcardBothForms(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{}))
	alice, token := createTestUser(t, db, "alice@example.com")

	first := models.Flashcard{Front: "Q1", Back: "A1", UserID: alice.ID}
	second := models.Flashcard{Front: "Q2", Back: "A2", UserID: alice.ID}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/flashcards/%d", first.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Legacy query-parameter form
	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/flashcards?id=%d", second.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Flashcard{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteFlashcardMissingID(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{}))
	_, token := createTestUser(t, db, "alice@example.com")

	w := doRequest(t, r, http.MethodDelete, "/api/flashcards", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Flashcard ID is required")
}

func TestDeleteFlashcardOwnerScope(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{}))
	alice, _ := createTestUser(t, db, "alice@example.com")
	_, bobToken := createTestUser(t, db, "bob@example.com")

	card := models.Flashcard{Front: "Q", Back: "A", UserID: alice.ID}
	require.NoError(t, db.Create(&card).Error)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/flashcards/%d", card.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var check models.Flashcard
	assert.NoError(t, db.First(&check, card.ID).Error)
}

func TestListFlashcardsTopicFilter(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, newStubPipeline(&stubGenerator{}))
	alice, token := createTestUser(t, db, "alice@example.com")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Flashcard{
			Front: fmt.Sprintf("Q%d", i), Back: "A", Topic: "math", UserID: alice.ID,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Flashcard{
		Front: "Other", Back: "A", Topic: "history", UserID: alice.ID,
	}).Error)

	var listResp struct {
		Flashcards []models.Flashcard `json:"flashcards"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}

	w := doRequest(t, r, http.MethodGet, "/api/flashcards?topic=math", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listResp)
	assert.Equal(t, int64(3), listResp.Pagination.Total)
	for _, card := range listResp.Flashcards {
		assert.Equal(t, "math", card.Topic)
	}
}
