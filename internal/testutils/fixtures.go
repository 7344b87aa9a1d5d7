package testutils

import (
	"fmt"
	"testing"
	"time"

	"tap-goose-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UniqueUsername returns a username no other test run will use.
func UniqueUsername(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString()[:8])
}

// CreateTestUser creates a survivor with password "password" and deletes it
// when the test ends.
func CreateTestUser(t *testing.T, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()

	passwordHash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	user := &models.User{
		Username:     UniqueUsername("test_user"),
		PasswordHash: string(passwordHash),
		Role:         models.RoleSurvivor,
	}
	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Delete(&models.User{}, "id = ?", user.ID)
	})
	return user
}

type UserOption func(*models.User)

func WithUsername(username string) UserOption {
	return func(u *models.User) {
		u.Username = username
	}
}

func WithRole(role models.Role) UserOption {
	return func(u *models.User) {
		u.Role = role
	}
}

// WithPassword sets the password (will be hashed).
func WithPassword(password string) UserOption {
	return func(u *models.User) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		u.PasswordHash = string(hash)
	}
}

// CreateTestRound creates a round with the given window; its taps go with it
// on cleanup.
func CreateTestRound(t *testing.T, db *gorm.DB, start, end time.Time) *models.Round {
	t.Helper()

	round := &models.Round{StartDate: start, EndDate: end}
	if err := db.Create(round).Error; err != nil {
		t.Fatalf("Failed to create test round: %v", err)
	}
	t.Cleanup(func() {
		db.Delete(&models.Round{}, "id = ?", round.ID)
	})
	return round
}

// CreateActiveRound creates a round that opened a minute ago and stays open
// for ten more minutes.
func CreateActiveRound(t *testing.T, db *gorm.DB) *models.Round {
	now := time.Now()
	return CreateTestRound(t, db, now.Add(-time.Minute), now.Add(10*time.Minute))
}

func CreateTestTap(t *testing.T, db *gorm.DB, round *models.Round, user *models.User, points int) *models.Tap {
	t.Helper()

	tap := &models.Tap{RoundID: round.ID, UserID: user.ID, Points: points}
	if err := db.Create(tap).Error; err != nil {
		t.Fatalf("Failed to create test tap: %v", err)
	}
	return tap
}
