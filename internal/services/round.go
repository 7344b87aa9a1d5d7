package services

import (
	"context"
	"database/sql"
	"time"

	"tap-goose-backend/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RoundService struct {
	db       *gorm.DB
	scoring  *ScoringService
	cooldown time.Duration
	duration time.Duration
	log      *logrus.Logger
	now      func() time.Time
}

func NewRoundService(db *gorm.DB, scoring *ScoringService, cooldown, duration time.Duration, log *logrus.Logger) *RoundService {
	return &RoundService{
		db:       db,
		scoring:  scoring,
		cooldown: cooldown,
		duration: duration,
		log:      log,
		now:      time.Now,
	}
}

type TapView struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Points   int       `json:"points"`
}

type RoundDetail struct {
	ID         uuid.UUID              `json:"id"`
	StartDate  time.Time              `json:"startDate"`
	EndDate    time.Time              `json:"endDate"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
	Status     models.RoundStatus     `json:"status"`
	Taps       []TapView              `json:"taps"`
	TapsByUser map[string]PlayerScore `json:"tapsByUser"`
	// Winner stays nil until the round has finished.
	Winner *PlayerScore `json:"winner"`
}

func (s *RoundService) CreateRound(ctx context.Context) (*models.Round, error) {
	start := s.now().Add(s.cooldown)
	round := models.Round{
		StartDate: start,
		EndDate:   start.Add(s.duration),
	}
	if err := s.db.WithContext(ctx).Create(&round).Error; err != nil {
		return nil, errors.Wrap(err, "create round")
	}

	s.log.WithFields(logrus.Fields{
		"round_id":   round.ID,
		"start_date": round.StartDate,
		"end_date":   round.EndDate,
	}).Info("round created")
	return &round, nil
}

// ListRounds returns every round, latest start first, without taps or status.
func (s *RoundService) ListRounds(ctx context.Context) ([]models.Round, error) {
	var rounds []models.Round
	if err := s.db.WithContext(ctx).
		Select("id", "start_date", "end_date", "created_at", "updated_at").
		Order("start_date DESC").
		Find(&rounds).Error; err != nil {
		return nil, errors.Wrap(err, "list rounds")
	}
	return rounds, nil
}

func (s *RoundService) GetRound(ctx context.Context, id string) (*RoundDetail, error) {
	round, err := s.loadRound(ctx, id, true)
	if err != nil {
		return nil, err
	}

	status := round.StatusAt(s.now())
	scores, order := s.scoring.TapsByUser(round.Taps)

	detail := &RoundDetail{
		ID:         round.ID,
		StartDate:  round.StartDate,
		EndDate:    round.EndDate,
		CreatedAt:  round.CreatedAt,
		UpdatedAt:  round.UpdatedAt,
		Status:     status,
		Taps:       make([]TapView, 0, len(round.Taps)),
		TapsByUser: scores,
	}
	for _, tap := range round.Taps {
		detail.Taps = append(detail.Taps, TapView{
			ID:       tap.ID,
			UserID:   tap.UserID,
			Username: tap.User.Username,
			Points:   tap.Points,
		})
	}
	if status == models.RoundStatusFinished {
		winner := s.scoring.Winner(scores, order)
		detail.Winner = &winner
	}
	return detail, nil
}

func (s *RoundService) IsRoundActive(ctx context.Context, id string) (bool, error) {
	round, err := s.loadRound(ctx, id, false)
	if err != nil {
		return false, err
	}
	return round.ActiveAt(s.now()), nil
}

func (s *RoundService) loadRound(ctx context.Context, id string, withTaps bool) (*models.Round, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRoundNotFound
	}

	var round models.Round
	load := func(tx *gorm.DB) error {
		if withTaps {
			// Taps come back in first-tap order so winner ties go to the earliest tapper.
			tx = tx.Preload("Taps", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC, id ASC")
			}).Preload("Taps.User", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "username")
			})
		}
		return tx.First(&round, "id = ?", rid).Error
	}

	if withTaps {
		// The round, its taps and their users come from one snapshot.
		err = s.db.WithContext(ctx).Transaction(load, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	} else {
		err = load(s.db.WithContext(ctx))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.WithField("round_id", id).Debug("round not found")
			return nil, ErrRoundNotFound
		}
		return nil, errors.Wrap(err, "load round")
	}
	return &round, nil
}
