package ws

import (
	"encoding/json"
	"sync"
	"time"

	"tap-goose-backend/internal/events"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait = 5 * time.Second
	sendQueue = 64

	// PongWait is how long a reader may go without hearing from the peer.
	PongWait   = 60 * time.Second
	pingPeriod = PongWait * 9 / 10
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// client owns the only writer of its connection.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans tap events out to the websocket clients watching a round.
// Broadcast only queues; a client that falls behind misses messages.
type Hub struct {
	mu     sync.Mutex
	rounds map[string]map[*websocket.Conn]*client
	log    *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		rounds: make(map[string]map[*websocket.Conn]*client),
		log:    log,
	}
}

func (h *Hub) AddConnection(roundID string, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendQueue)}

	h.mu.Lock()
	if h.rounds[roundID] == nil {
		h.rounds[roundID] = make(map[*websocket.Conn]*client)
	}
	h.rounds[roundID][conn] = c
	total := len(h.rounds[roundID])
	h.mu.Unlock()

	go h.writeLoop(roundID, c)
	h.log.WithFields(logrus.Fields{"round_id": roundID, "clients": total}).Debug("ws client connected")
}

// RemoveConnection stops the client's writer and closes conn. Calling it
// twice for the same conn is harmless.
func (h *Hub) RemoveConnection(roundID string, conn *websocket.Conn) {
	h.mu.Lock()
	c, ok := h.rounds[roundID][conn]
	if ok {
		delete(h.rounds[roundID], conn)
		if len(h.rounds[roundID]) == 0 {
			delete(h.rounds, roundID)
		}
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		conn.Close()
		h.log.WithField("round_id", roundID).Debug("ws client disconnected")
	}
}

// Clients returns how many connections watch roundID.
func (h *Hub) Clients(roundID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rounds[roundID])
}

func (h *Hub) Broadcast(roundID string, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.WithError(err).Error("ws: marshal message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.rounds[roundID] {
		select {
		case c.send <- data:
		default:
			h.log.WithField("round_id", roundID).Debug("ws: client queue full, message dropped")
		}
	}
}

// HandleTapEvent is an events.Handler.
func (h *Hub) HandleTapEvent(ev events.TapEvent) {
	h.Broadcast(ev.RoundID, WSMessage{Type: "tap", Data: ev})
}

func (h *Hub) writeLoop(roundID string, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var err error
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = c.conn.WriteMessage(websocket.TextMessage, data)
		case <-ticker.C:
			err = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		}
		if err != nil {
			h.log.WithError(err).WithField("round_id", roundID).Warn("ws: write failed, dropping client")
			// Unblocks the reader, which then calls RemoveConnection.
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}
