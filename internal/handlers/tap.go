package handlers

import (
	"net/http"

	"tap-goose-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

type TapHandler struct {
	tapService TapRecorder
}

func NewTapHandler(tapService TapRecorder) *TapHandler {
	return &TapHandler{tapService: tapService}
}

// Tap godoc
// @Summary      Tap the goose
// @Description  Record one tap for the caller and return their new total in the round
// @Tags         taps
// @Produce      json
// @Security     BearerAuth
// @Param        roundId path string true "Round ID"
// @Success      200 {object} TapResult
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /taps/{roundId} [post]
func (h *TapHandler) Tap(c *gin.Context) {
	res, err := h.tapService.RecordTap(c.Request.Context(), c.Param("roundId"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
