package services

import (
	"context"
	"regexp"

	"purchase-orders-backend/db/models"
	"purchase-orders-backend/users/repositories"
)

var (
	uppercase   = regexp.MustCompile(`[A-Z]`)
	lowercase   = regexp.MustCompile(`[a-z]`)
	digit       = regexp.MustCompile(`[0-9]`)
	specialChar = regexp.MustCompile(`[!@#\$%\^&\*\(\)_\+\-=\[\]\{\};':"\\|,.<>\/?]+`)
	emailRegex  = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
)

func ValidateUser(user *models.User) string {
	if user.FirstName == "" {
		return "FirstName is required"
	}
	if user.LastName == "" {
		return "LastName is required"
	}
	if user.Email == "" {
		return "Email is required"
	}
	if user.Password == "" {
		return "Password is required"
	}
	switch user.Role {
	case models.AdminRole, models.ProcurementRole, models.ViewerRole:
	default:
		return "Invalid role"
	}
	return ""
}

func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	if !uppercase.MatchString(password) {
		return "Password must contain at least one uppercase letter"
	}
	if !lowercase.MatchString(password) {
		return "Password must contain at least one lowercase letter"
	}
	if !digit.MatchString(password) {
		return "Password must contain at least one digit"
	}
	if !specialChar.MatchString(password) {
		return "Password must contain at least one special character"
	}
	return ""
}

func ValidateEmailFormat(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidateEmail(ctx context.Context, email string, repo repositories.UserRepository) string {
	if !ValidateEmailFormat(email) {
		return "Invalid email format"
	}
	if user, err := repo.GetUserByEmail(ctx, email); err == nil && user != nil {
		return "Email already exists"
	}
	return ""
}
