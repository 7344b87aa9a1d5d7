package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tap holds the running score of one user in one round.
type Tap struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tap_user_round" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RoundID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tap_user_round;index" json:"roundId"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	// TapCount is the number of taps behind Points; the bonus is keyed on it.
	TapCount  int       `gorm:"not null;default:0" json:"tapCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tap) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
