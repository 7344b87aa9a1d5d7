package services

import (
	"context"
	"database/sql"
	"time"

	"tap-goose-backend/internal/events"
	"tap-goose-backend/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultTapTimeout = 5 * time.Second

type TapService struct {
	db        *gorm.DB
	scoring   *ScoringService
	publisher events.Publisher
	timeout   time.Duration
	log       *logrus.Logger
	now       func() time.Time
}

func NewTapService(db *gorm.DB, scoring *ScoringService, publisher events.Publisher, timeout time.Duration, log *logrus.Logger) *TapService {
	if timeout <= 0 {
		timeout = DefaultTapTimeout
	}
	return &TapService{
		db:        db,
		scoring:   scoring,
		publisher: publisher,
		timeout:   timeout,
		log:       log,
		now:       time.Now,
	}
}

type TapResult struct {
	Points int `json:"points"`
}

// RecordTap adds one tap for userID in roundID inside a single serializable
// transaction. The activity window is checked in the same transaction as the
// write. Conflicts and timeouts come back as ErrTransient; nothing is retried.
func (s *TapService) RecordTap(ctx context.Context, roundID, userID string) (*TapResult, error) {
	rid, err := uuid.Parse(roundID)
	if err != nil {
		return nil, ErrRoundNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		result   TapResult
		username string
		written  bool
	)
	err = s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		var round models.Round
		if err := tx.Select("id", "start_date", "end_date").First(&round, "id = ?", rid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return errors.Wrap(err, "load round")
		}
		if !round.ActiveAt(s.now()) {
			return ErrRoundNotActive
		}

		var user models.User
		if err := tx.Select("id", "username", "role").First(&user, "id = ?", uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return errors.Wrap(err, "load user")
		}
		username = user.Username

		if user.Role.ScoresZero() {
			result.Points = 0
			return nil
		}

		var existing models.Tap
		err := tx.Select("points", "tap_count").Where("user_id = ? AND round_id = ?", uid, rid).Take(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "load tap")
		}

		count, total := s.scoring.Next(existing.TapCount, existing.Points)
		tap := models.Tap{UserID: uid, RoundID: rid, Points: total, TapCount: count}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "round_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"points":     total,
				"tap_count":  count,
				"updated_at": s.now(),
			}),
		}).Create(&tap).Error; err != nil {
			return errors.Wrap(err, "upsert tap")
		}

		result.Points = total
		written = true
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	fields := logrus.Fields{"round_id": roundID, "user_id": userID}
	if err != nil {
		if isDomainError(err) {
			s.log.WithFields(fields).WithError(err).Debug("tap rejected")
			return nil, err
		}
		if isTransient(err) {
			s.log.WithFields(fields).WithError(err).Warn("tap aborted")
			return nil, &transientError{cause: err}
		}
		s.log.WithFields(fields).WithError(err).Error("tap failed")
		return nil, err
	}

	s.log.WithFields(fields).WithField("points", result.Points).Debugf("tap recorded for %s", username)
	if written && s.publisher != nil {
		ev := events.TapEvent{
			RoundID:  rid.String(),
			UserID:   uid.String(),
			Username: username,
			Points:   result.Points,
			At:       s.now(),
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.log.WithFields(fields).WithError(err).Warn("failed to publish tap event")
		}
	}
	return &result, nil
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrRoundNotFound) ||
		errors.Is(err, ErrRoundNotActive) ||
		errors.Is(err, ErrUserNotFound)
}
