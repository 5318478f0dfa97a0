package authevents

import (
	"log/slog"
	"sync"
)

// Identity describes the signed-in user carried on auth-change events.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// Broker fans identity changes out to subscribers. It replaces a process-wide
// listener list: components hold a reference to the broker and tear down
// their own subscriptions.
type Broker struct {
	mu      sync.Mutex
	subs    map[int]func(*Identity)
	nextID  int
	current *Identity
}

// Subscription is the handle returned by Subscribe. Cancel removes the
// callback; cancelling twice is a no-op.
type Subscription struct {
	broker *Broker
	id     int
	once   sync.Once
}

// NewBroker creates an empty Broker with no current identity.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]func(*Identity))}
}

// Subscribe registers a callback invoked on every identity transition.
// The callback is invoked immediately with the current identity, if any.
// PRE: fn is non-nil
// POST: Returns a cancellable subscription handle
func (b *Broker) Subscribe(fn func(*Identity)) *Subscription {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	current := b.current
	b.mu.Unlock()

	if current != nil {
		fn(current)
	}
	return &Subscription{broker: b, id: id}
}

// Publish records the new current identity (nil for signed-out) and
// notifies all subscribers.
// PRE: none
// POST: All registered callbacks have been invoked with identity
func (b *Broker) Publish(identity *Identity) {
	b.mu.Lock()
	b.current = identity
	fns := make([]func(*Identity), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
	if identity != nil {
		slog.Debug("auth_change", "user_id", identity.UserID)
	} else {
		slog.Debug("auth_change", "user_id", "")
	}
}

// Current returns the last published identity, or nil when signed out.
func (b *Broker) Current() *Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Cancel removes the subscription from the broker.
// PRE: none
// POST: The callback will not be invoked again
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s.id)
		s.broker.mu.Unlock()
	})
}
