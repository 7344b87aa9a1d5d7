package handlers

import (
	"context"
	"net/http"

	"tap-goose-backend/internal/models"
	"tap-goose-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*services.AuthResult, error)
	Register(ctx context.Context, username, password string) (*services.AuthResult, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type RoundManager interface {
	CreateRound(ctx context.Context) (*models.Round, error)
	ListRounds(ctx context.Context) ([]models.Round, error)
	GetRound(ctx context.Context, id string) (*services.RoundDetail, error)
	IsRoundActive(ctx context.Context, id string) (bool, error)
}

type TapRecorder interface {
	RecordTap(ctx context.Context, roundID, userID string) (*services.TapResult, error)
}

// Type aliases so swag can resolve models in annotations.
type User = models.User
type Round = models.Round
type RoundDetail = services.RoundDetail
type TapResult = services.TapResult
type AuthResult = services.AuthResult

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrRoundNotFound), errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRoundNotActive):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUsernameTaken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError records err on the context for the request logger and writes
// the mapped status. Internal failures are not echoed to the client.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		msg = "internal server error"
	case http.StatusServiceUnavailable:
		msg = "tap not recorded, try again"
	}
	c.JSON(status, ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
