package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6380"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestRedisBus_PublishSubscribe(t *testing.T) {
	rdb := setupTestRedis(t)
	log := logrus.New()
	bus := NewRedisBus(rdb, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan TapEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- bus.Subscribe(ctx, func(ev TapEvent) {
			select {
			case received <- ev:
			default:
			}
		})
	}()

	ev := TapEvent{RoundID: "r1", UserID: "u1", Username: "goose", Points: 11, At: time.Now().UTC().Truncate(time.Millisecond)}

	// The subscription is established asynchronously; publish until it lands.
	require.Eventually(t, func() bool {
		if err := bus.Publish(context.Background(), ev); err != nil {
			return false
		}
		select {
		case got := <-received:
			assert.Equal(t, ev.RoundID, got.RoundID)
			assert.Equal(t, ev.Points, got.Points)
			assert.True(t, ev.At.Equal(got.At))
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
