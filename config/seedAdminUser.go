package config

import (
	"errors"
	"fmt"

	"purchase-orders-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the bootstrap administrator from ADMIN_EMAIL and
// ADMIN_PASSWORD if no user with that email exists yet.
func SeedAdminUser(db *gorm.DB) error {
	email := GetEnv("ADMIN_EMAIL")
	password := GetEnv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		Logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.User{
		ID:        uuid.New(),
		FirstName: "System",
		LastName:  "Administrator",
		Email:     email,
		Password:  string(hashedPassword),
		Role:      models.AdminRole,
		Active:    true,
		CreatedBy: "system",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	Logger.Info("Seeded admin user", zap.String("email", email))
	return nil
}
