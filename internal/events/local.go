package events

import (
	"context"
	"sync"
)

// SubscriberBuffer is how many events a slow LocalBus subscriber may lag
// behind before new events are dropped for it.
const SubscriberBuffer = 256

// LocalBus fans events out inside a single process. Publish never waits on a
// subscriber: each one drains its own buffered queue.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	queues map[int]chan TapEvent
}

func NewLocalBus() *LocalBus {
	return &LocalBus{queues: make(map[int]chan TapEvent)}
}

func (b *LocalBus) Publish(ctx context.Context, ev TapEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, q := range b.queues {
		select {
		case q <- ev:
		default:
			// subscriber is behind; it misses this event
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, h Handler) error {
	q := make(chan TapEvent, SubscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.queues[id] = q
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range q {
			h(ev)
		}
	}()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.queues, id)
	b.mu.Unlock()
	close(q)
	<-done
	return nil
}

func (b *LocalBus) subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.queues)
}
