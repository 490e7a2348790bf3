package models

import (
	"time"

	"gorm.io/datatypes"
)

// Note is a free-form study note. Tags is a JSON array of strings; order is
// preserved and duplicates are allowed.
type Note struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Topic     string         `gorm:"index" json:"topic"`
	Tags      datatypes.JSON `json:"tags"`
	UserID    uint           `gorm:"not null;index" json:"-"`
}
