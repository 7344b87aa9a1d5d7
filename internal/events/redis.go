package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const TapChannel = "rounds:taps"

// RedisBus shares tap events between server instances over Redis pub/sub.
// Publishing goes through a circuit breaker so a Redis outage only drops the
// live feed.
type RedisBus struct {
	rdb *redis.Client
	cb  *gobreaker.CircuitBreaker
	log *logrus.Logger
}

func NewRedisBus(rdb *redis.Client, log *logrus.Logger) *RedisBus {
	st := gobreaker.Settings{
		Name:        "TapEventPublisher",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("circuit breaker %s changed from %s to %s", name, from, to)
		},
	}

	return &RedisBus{
		rdb: rdb,
		cb:  gobreaker.NewCircuitBreaker(st),
		log: log,
	}
}

func (b *RedisBus) Publish(ctx context.Context, ev TapEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal tap event")
	}

	_, err = b.cb.Execute(func() (interface{}, error) {
		return nil, b.rdb.Publish(ctx, TapChannel, payload).Err()
	})
	return errors.Wrap(err, "publish tap event")
}

func (b *RedisBus) Subscribe(ctx context.Context, h Handler) error {
	sub := b.rdb.Subscribe(ctx, TapChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrap(err, "subscribe to tap events")
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev TapEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.WithError(err).Warn("dropping malformed tap event")
				continue
			}
			h(ev)
		}
	}
}
