package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSurvivor Role = "SURVIVOR"
	// RoleNikita may tap but never scores.
	RoleNikita Role = "NIKITA"
)

// RoleForUsername assigns a role by naming convention, case-insensitively.
func RoleForUsername(username string) Role {
	switch strings.ToLower(username) {
	case "admin":
		return RoleAdmin
	case "nikita":
		return RoleNikita
	default:
		return RoleSurvivor
	}
}

func (r Role) ScoresZero() bool {
	switch r {
	case RoleNikita:
		return true
	default:
		return false
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSurvivor, RoleNikita:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'SURVIVOR'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
