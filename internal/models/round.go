package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoundStatus string

const (
	RoundStatusCooldown RoundStatus = "cooldown"
	RoundStatusActive   RoundStatus = "active"
	RoundStatusFinished RoundStatus = "finished"
)

// Round is immutable once created; its status is derived from the clock.
type Round struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StartDate time.Time `gorm:"not null;index" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`
	Taps      []Tap     `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE" json:"taps,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ActiveAt reports whether now lies in the closed interval [StartDate, EndDate].
func (r *Round) ActiveAt(now time.Time) bool {
	return !now.Before(r.StartDate) && !now.After(r.EndDate)
}

func (r *Round) StatusAt(now time.Time) RoundStatus {
	switch {
	case now.Before(r.StartDate):
		return RoundStatusCooldown
	case now.After(r.EndDate):
		return RoundStatusFinished
	default:
		return RoundStatusActive
	}
}
