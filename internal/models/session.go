package models

import (
	"time"

	"gorm.io/datatypes"
)

// StudySession is an append-only log entry for one sitting. NotesStudied is a
// JSON array of note IDs the user went through.
type StudySession struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	CreatedAt          time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time      `json:"-"`
	Topic              string         `gorm:"index" json:"topic"`
	DurationMinutes    int            `gorm:"not null" json:"duration"`
	FlashcardsReviewed int            `gorm:"not null;default:0" json:"flashcardsReviewed"`
	NotesStudied       datatypes.JSON `json:"notesStudied"`
	UserID             uint           `gorm:"not null;index" json:"-"`
}
