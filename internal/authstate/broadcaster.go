// ABOUTME: In-memory fan-out broadcaster for authentication state transitions
// ABOUTME: Replaces ambient global auth state with explicit subscriptions

package authstate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rentalbridge/rentalbridge-go/internal/api"
)

const (
	// subscriberBufferSize is the channel buffer for each subscriber.
	subscriberBufferSize = 8
)

// Event is a snapshot of the authentication state at a transition.
type Event struct {
	Authenticated bool
	User          *api.User // nil when unauthenticated
}

// Broadcaster provides in-memory pub/sub for authentication state changes.
// Subscribers receive an Event whenever the controller transitions between
// authenticated and unauthenticated, so navigation side effects (returning to
// the login screen, entering the dashboard) happen without polling shared
// state.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	closed      bool
	logger      *slog.Logger
}

// NewBroadcaster creates a broadcaster. Pass nil logger for default.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subscribers: make(map[string]chan Event),
		logger:      logger.With("component", "authstate"),
	}
}

// Subscribe registers a subscriber for auth state transitions. Returns a
// channel that receives events and a subscription ID for later
// unsubscription. The subscription is automatically cleaned up when ctx is
// cancelled.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan Event, string) {
	subID := uuid.New().String()
	ch := make(chan Event, subscriberBufferSize)

	b.mu.Lock()
	b.subscribers[subID] = ch
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "sub_id", subID)

	go func() {
		<-ctx.Done()
		b.Unsubscribe(subID)
	}()

	return ch, subID
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[subID]
	if !ok {
		return
	}
	delete(b.subscribers, subID)
	close(ch)

	b.logger.Debug("subscriber removed", "sub_id", subID)
}

// Publish sends an event to all subscribers. Non-blocking: events are dropped
// for subscribers whose channels are full.
func (b *Broadcaster) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for subID, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("dropping auth event for slow subscriber", "sub_id", subID)
		}
	}
}

// Close shuts down the broadcaster and closes all subscriber channels.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for subID, ch := range b.subscribers {
		delete(b.subscribers, subID)
		close(ch)
	}
}
