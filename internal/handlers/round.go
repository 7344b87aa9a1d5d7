package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RoundHandler struct {
	roundService RoundManager
}

func NewRoundHandler(roundService RoundManager) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

type ActiveResponse struct {
	Active bool `json:"active" example:"true"`
}

// CreateRound godoc
// @Summary      Create a round
// @Description  Schedule a new round that opens after the cooldown. Admins only.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} Round
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /rounds [post]
func (h *RoundHandler) CreateRound(c *gin.Context) {
	round, err := h.roundService.CreateRound(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, round)
}

// ListRounds godoc
// @Summary      List rounds
// @Description  All rounds, latest start first
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Round
// @Router       /rounds [get]
func (h *RoundHandler) ListRounds(c *gin.Context) {
	rounds, err := h.roundService.ListRounds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rounds)
}

// GetRound godoc
// @Summary      Round detail
// @Description  Status, taps, per-user totals and, once finished, the winner
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} RoundDetail
// @Failure      404 {object} ErrorResponse
// @Router       /rounds/{id} [get]
func (h *RoundHandler) GetRound(c *gin.Context) {
	detail, err := h.roundService.GetRound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// IsRoundActive godoc
// @Summary      Is the round accepting taps
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} ActiveResponse
// @Failure      404 {object} ErrorResponse
// @Router       /rounds/{id}/active [get]
func (h *RoundHandler) IsRoundActive(c *gin.Context) {
	active, err := h.roundService.IsRoundActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActiveResponse{Active: active})
}
