package models

import "time"

// Flashcard difficulty values. The zero value means "not yet rated".
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether d is one of the known difficulty values.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Flashcard is a single front/back study card. ReviewCount only ever grows,
// via the review endpoint's atomic increment.
type Flashcard struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time  `json:"-"`
	Front        string     `gorm:"type:text;not null" json:"front"`
	Back         string     `gorm:"type:text;not null" json:"back"`
	Topic        string     `gorm:"index" json:"topic"`
	Difficulty   string     `gorm:"not null;default:''" json:"difficulty"`
	ReviewCount  int        `gorm:"not null;default:0" json:"reviewCount"`
	LastReviewed *time.Time `json:"lastReviewed"`
	UserID       uint       `gorm:"not null;index" json:"-"`
}
