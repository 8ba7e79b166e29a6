// Package invalidation notifies subscribers that cached listings for a scope are stale.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
package invalidation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event marks a scope as stale.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Scope     string    `json:"scope"`
	Timestamp time.Time `json:"timestamp"`
}

// Subscription receives events until it is closed.
type Subscription struct {
	events chan Event
	hub    *Hub
	once   sync.Once
}

// Events returns the receive side of the subscription.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription from the hub and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub fans invalidation events out to subscribers.
type Hub struct {
	mu         sync.Mutex
	subs       map[*Subscription]struct{}
	bufferSize int
	logger     *slog.Logger
}

// NewHub creates a Hub whose subscriptions buffer bufferSize events.
func NewHub(bufferSize int, logger *slog.Logger) *Hub {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Hub{
		subs:       make(map[*Subscription]struct{}),
		bufferSize: bufferSize,
		logger:     logger.With("system", "invalidation"),
	}
}

func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{
		events: make(chan Event, h.bufferSize),
		hub:    h,
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	return s
}

// Publish sends one event per scope to every subscriber.
func (h *Hub) Publish(scopes ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, scope := range scopes {
		event := Event{ID: uuid.New(), Scope: scope, Timestamp: time.Now()}
		for s := range h.subs {
			select {
			case s.events <- event:
			default:
				h.logger.Warn("subscriber buffer full, dropping event", "scope", scope)
			}
		}
	}
}

// Subscribers returns the number of attached subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.events)
	}
}
