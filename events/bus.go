// Package events fans content change notifications out to subscribers: the
// MQTT sink and websocket clients.
package events

import (
	"sync"
	"time"

	"go-blog-backend/metrics"

	"github.com/sirupsen/logrus"
)

// Event types.
const (
	PostCreated    = "post.created"
	PostUpdated    = "post.updated"
	PostDeleted    = "post.deleted"
	CommentCreated = "comment.created"
	CommentDeleted = "comment.deleted"
)

// Event describes one content change.
type Event struct {
	Type    string    `json:"type"`
	ID      uint      `json:"id"`
	PostID  uint      `json:"post_id,omitempty"`
	ActorID uint      `json:"actor_id"`
	At      time.Time `json:"at"`
}

// Bus delivers each published event to every current subscriber. A slow
// subscriber loses events instead of blocking publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
	log    *logrus.Logger
}

func NewBus(log *logrus.Logger) *Bus {
	return &Bus{subs: make(map[int]chan Event), log: log}
}

// Publish stamps e and hands it to subscribers without blocking.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	metrics.RecordEvent(e.Type)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.log.WithFields(logrus.Fields{"subscriber": id, "type": e.Type}).Warn("event dropped, subscriber is full")
		}
	}
}

// Subscribe returns a channel of events and a function that cancels the subscription.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
}

// Close ends every subscription.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
