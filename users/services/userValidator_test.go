package services

import (
	"context"
	"testing"
	"time"

	"purchase-orders-backend/db/models"
	"purchase-orders-backend/users/repositories"

	"github.com/google/uuid"
)

type fakeUserRepo struct{ users map[string]*models.User }

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func TestValidateUser(t *testing.T) {
	valid := models.User{FirstName: "Sara", LastName: "Ali", Email: "sara@example.com", Password: "x", Role: models.ProcurementRole}
	if msg := ValidateUser(&valid); msg != "" {
		t.Errorf("valid user: %s", msg)
	}

	bad := valid
	bad.Role = "superuser"
	if msg := ValidateUser(&bad); msg != "Invalid role" {
		t.Errorf("role: %q", msg)
	}
	bad = valid
	bad.Email = ""
	if msg := ValidateUser(&bad); msg != "Email is required" {
		t.Errorf("email: %q", msg)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := map[string]bool{
		"Sh0rt!":       false,
		"alllower1!":   false,
		"ALLUPPER1!":   false,
		"NoDigits!!":   false,
		"NoSpecial123": false,
		"Str0ng!Pass":  true,
	}
	for pw, ok := range cases {
		if got := ValidatePassword(pw) == ""; got != ok {
			t.Errorf("%q: valid = %v, want %v", pw, got, ok)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{"taken@example.com": {Email: "taken@example.com"}}}
	ctx := context.Background()

	if msg := ValidateEmail(ctx, "not-an-email", repo); msg != "Invalid email format" {
		t.Errorf("format: %q", msg)
	}
	if msg := ValidateEmail(ctx, "taken@example.com", repo); msg != "Email already exists" {
		t.Errorf("taken: %q", msg)
	}
	if msg := ValidateEmail(ctx, "new@example.com", repo); msg != "" {
		t.Errorf("new: %q", msg)
	}
}
