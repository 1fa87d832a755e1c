package app

import (
	"sync"
	"time"
)

// StateChangeType describes what happened to the Preloader's state.
type StateChangeType string

const (
	StateLoading   StateChangeType = "loading"
	StateLoaded    StateChangeType = "loaded"
	StateFailed    StateChangeType = "failed"
	StateCleared   StateChangeType = "cleared"
	StatePreloaded StateChangeType = "preloaded"
)

// StateChange is published after every Preloader mutation. Resource is empty
// for changes that cover every resource.
type StateChange struct {
	ID        uint64          `json:"id"`
	Type      StateChangeType `json:"type"`
	Resource  Resource        `json:"resource,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

const subscriberBufferSize = 64

// Bus is an in-memory pub/sub fan-out. Publish never blocks: when a
// subscriber's buffer is full its oldest message is dropped, so slow
// consumers always end up holding the latest state.
type Bus[T any] struct {
	mu          sync.RWMutex
	bufferSize  int
	subscribers map[chan T]struct{}
}

func NewBus[T any]() *Bus[T] {
	return NewBusWithBuffer[T](subscriberBufferSize)
}

func NewBusWithBuffer[T any](size int) *Bus[T] {
	if size < 1 {
		size = 1
	}
	return &Bus[T]{
		bufferSize:  size,
		subscribers: make(map[chan T]struct{}),
	}
}

// Subscribe returns a buffered channel that receives messages and an
// unsubscribe function. The caller must call unsubscribe when done; the
// channel is not closed.
func (b *Bus[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, b.bufferSize)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, ch)
			b.mu.Unlock()
		})
	}

	return ch, unsubscribe
}

func (b *Bus[T]) Publish(msg T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- msg:
			continue
		default:
		}
		// Full buffer: make room by discarding the oldest message.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount reports the number of live subscriptions.
func (b *Bus[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
