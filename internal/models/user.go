package models

import "time"

// User represents an application user. PasswordHash is never serialized.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null;default:''" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`

	// Associations
	Notes         []Note          `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Flashcards    []Flashcard     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	StudySessions []StudySession  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Jobs          []GenerationJob `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
