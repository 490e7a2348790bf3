package models

import (
	"time"

	"gorm.io/datatypes"
)

// GenerationJob status constants
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// GenerationJob tracks an asynchronous flashcard deck generation request.
// Cards holds the generated {front, back} pairs as JSON once completed; the
// cards are also persisted as individual Flashcard rows for the owner.
type GenerationJob struct {
	ID           uint           `gorm:"primarykey" json:"-"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"-"`
	JobID        string         `gorm:"uniqueIndex;not null" json:"jobId"`
	UserID       uint           `gorm:"not null;index" json:"-"`
	Topic        string         `gorm:"not null" json:"topic"`
	Count        int            `gorm:"not null" json:"count"`
	Difficulty   string         `gorm:"not null;default:'medium'" json:"difficulty"`
	Status       string         `gorm:"not null;default:'pending';index" json:"status"`
	ErrorMessage string         `gorm:"type:text" json:"errorMessage,omitempty"`
	Cards        datatypes.JSON `json:"cards,omitempty"`
	GeneratedAt  *time.Time     `json:"generatedAt,omitempty"`
}
