package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tap-goose-backend/internal/events"
	"tap-goose-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSHandler(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	hub := ws.NewHub(log)

	r := gin.New()
	r.GET("/ws/rounds/:id", NewWSHandler(hub).HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	t.Run("invalid round id", func(t *testing.T) {
		w := do(r, http.MethodGet, "/ws/rounds/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("receives taps for its round", func(t *testing.T) {
		roundID := uuid.NewString()
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rounds/" + roundID
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.Eventually(t, func() bool { return hub.Clients(roundID) == 1 }, time.Second, 10*time.Millisecond)
		hub.HandleTapEvent(events.TapEvent{RoundID: roundID, Username: "goose", Points: 3})

		var msg ws.WSMessage
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "tap", msg.Type)

		conn.Close()
		assert.Eventually(t, func() bool { return hub.Clients(roundID) == 0 }, time.Second, 10*time.Millisecond)
	})
}
