package database

import (
	"log"

	"github.com/kvianAR/Mindmate/internal/auth"
	"github.com/kvianAR/Mindmate/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existingUser models.User
	result := db.Where("email = ?", "dev@mindmate.local").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	hash, err := auth.HashPassword("devpassword")
	if err != nil {
		return err
	}

	user := models.User{
		Email:        "dev@mindmate.local",
		Name:         "Dev User",
		PasswordHash: hash,
	}

	if err := db.Create(&user).Error; err != nil {
		return err
	}

	notes := []models.Note{
		{
			Title:   "Derivatives cheat sheet",
			Content: "d/dx sin(x) = cos(x); d/dx e^x = e^x; product and chain rules with worked examples.",
			Topic:   "calculus",
			Tags:    datatypes.JSON([]byte(`["math","exam-prep"]`)),
			UserID:  user.ID,
		},
		{
			Title:   "Photosynthesis overview",
			Content: "Light-dependent reactions in the thylakoid membrane, Calvin cycle in the stroma.",
			Topic:   "biology",
			Tags:    datatypes.JSON([]byte(`["science"]`)),
			UserID:  user.ID,
		},
	}
	if err := db.Create(&notes).Error; err != nil {
		return err
	}

	cards := []models.Flashcard{
		{Front: "What is the derivative of sin(x)?", Back: "cos(x)", Topic: "calculus", UserID: user.ID},
		{Front: "Where does the Calvin cycle occur?", Back: "In the stroma of the chloroplast", Topic: "biology", UserID: user.ID},
	}
	if err := db.Create(&cards).Error; err != nil {
		return err
	}

	log.Println("Seed data created: dev@mindmate.local / devpassword")
	return nil
}
