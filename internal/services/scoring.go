package services

import (
	"tap-goose-backend/internal/models"
)

const (
	// Every BonusInterval-th tap is worth BonusPoints extra.
	BonusInterval = 11
	BonusPoints   = 10
)

type PlayerScore struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// TapValue returns what the n-th tap (1-based) of a user in a round is worth:
// one point, plus the bonus on every BonusInterval-th tap.
func (s *ScoringService) TapValue(n int) int {
	if n > 0 && n%BonusInterval == 0 {
		return 1 + BonusPoints
	}
	return 1
}

// Next applies one more tap to a running (count, points) pair.
func (s *ScoringService) Next(count, points int) (int, int) {
	count++
	return count, points + s.TapValue(count)
}

// TapsByUser folds tap rows into per-user totals. The returned order lists
// user ids in first-seen order.
func (s *ScoringService) TapsByUser(taps []models.Tap) (map[string]PlayerScore, []string) {
	scores := make(map[string]PlayerScore)
	var order []string

	for _, tap := range taps {
		key := tap.UserID.String()
		score, seen := scores[key]
		if !seen {
			score.Username = tap.User.Username
			order = append(order, key)
		}
		score.Points += tap.Points
		scores[key] = score
	}
	return scores, order
}

// Winner returns the first entry in order holding the maximum. With no
// entries it returns an empty name with zero points.
func (s *ScoringService) Winner(scores map[string]PlayerScore, order []string) PlayerScore {
	winner := PlayerScore{}
	for _, key := range order {
		if score := scores[key]; score.Points > winner.Points {
			winner = score
		}
	}
	return winner
}
