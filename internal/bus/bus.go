// Package bus is a small in-process publish/subscribe hub used to decouple
// the importer from the consumers that react to chat lifecycle changes.
package bus

import (
	"strings"
	"sync"
	"time"
)

// Event is one published domain event. Kind is a dot-separated name,
// e.g. "chat.imported".
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

type subscriber struct {
	prefix string
	ch     chan Event
}

// Bus fans events out to subscribers by Kind prefix. Delivery is
// non-blocking: a subscriber with a full buffer misses the event.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]subscriber
	next int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]subscriber)}
}

// Publish stamps and delivers an event to every matching subscriber.
func (b *Bus) Publish(kind string, payload any) {
	evt := Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if !strings.HasPrefix(kind, s.prefix) {
			continue
		}
		select {
		case s.ch <- evt:
		default:
		}
	}
}

// Subscribe registers interest in events whose Kind starts with prefix.
// It returns the delivery channel and an unsubscribe function.
func (b *Bus) Subscribe(prefix string, buf int) (<-chan Event, func()) {
	ch := make(chan Event, buf)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = subscriber{prefix: prefix, ch: ch}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
