package events

import (
	"context"
	"time"
)

// TapEvent is emitted after a tap transaction commits.
type TapEvent struct {
	RoundID  string    `json:"roundId"`
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Points   int       `json:"points"`
	At       time.Time `json:"at"`
}

type Handler func(TapEvent)

type Publisher interface {
	Publish(ctx context.Context, ev TapEvent) error
}

// Bus delivers published events to every subscriber. Subscribe blocks until
// ctx is cancelled or the underlying transport fails.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context, h Handler) error
}
