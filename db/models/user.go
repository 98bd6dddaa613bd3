package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	AdminRole       Role = "admin"
	ProcurementRole Role = "procurement"
	ViewerRole      Role = "viewer"
)

// User is a back-office operator.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName   string         `gorm:"not null" json:"first_name"`
	LastName    string         `gorm:"not null" json:"last_name"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `json:"-"`
	Role        Role           `gorm:"type:varchar(30);not null" json:"role"`
	Active      bool           `gorm:"default:true" json:"active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedBy   string         `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanImport reports whether the user may run bulk imports.
func (u User) CanImport() bool {
	return u.Active && (u.Role == AdminRole || u.Role == ProcurementRole)
}
