package handlers

import (
	"net/http"
	"time"

	"tap-goose-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Viewers only receive; anything they send is read and discarded.
const maxViewerMessage = 512

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      Live tap feed for a round
// @Description  Connect via WebSocket to receive {"type":"tap"} messages as taps are recorded
// @Tags         websocket
// @Param        id path string true "Round ID"
// @Router       /ws/rounds/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid round id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}

	rid := roundID.String()
	h.hub.AddConnection(rid, conn)
	defer h.hub.RemoveConnection(rid, conn)

	conn.SetReadLimit(maxViewerMessage)
	_ = conn.SetReadDeadline(time.Now().Add(ws.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ws.PongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				_ = c.Error(err)
			}
			return
		}
	}
}
