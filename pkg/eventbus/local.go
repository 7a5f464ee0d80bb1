package eventbus

import (
	"context"
	"sync"
)

// Local is the in-process Bus backend. Delivery is synchronous on the
// emitter's goroutine and only reaches subscriptions in the same process.
type Local struct {
	subs   map[string]map[*Subscription]struct{} // channel -> subscriptions
	closed bool
	mu     sync.RWMutex
}

var _ Bus = (*Local)(nil)

// NewLocal creates a new in-process bus.
func NewLocal() *Local {
	return &Local{
		subs: make(map[string]map[*Subscription]struct{}),
	}
}

func (b *Local) Emit(ctx context.Context, event Event) error {
	if event.Channel == "" {
		return ErrMissingChannel
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	subs := make([]*Subscription, 0, len(b.subs[event.Channel]))
	for sub := range b.subs[event.Channel] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	// No subscribers is not an error; delivery is best effort.
	for _, sub := range subs {
		sub.handler(event)
	}
	return nil
}

func (b *Local) Subscribe(ctx context.Context, channels []string, handler Handler) (*Subscription, error) {
	sub, err := b.add(channels, handler, nil)
	if err != nil {
		return nil, err
	}
	watchContext(ctx, sub)
	return sub, nil
}

// add registers a subscription without context handling. onDetach, when not
// nil, runs after the subscription is removed from the channel map; the Redis
// backend uses it to release broker channel refcounts.
func (b *Local) add(channels []string, handler Handler, onDetach func(channels []string)) (*Subscription, error) {
	channels = dedupe(channels)
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if handler == nil {
		return nil, ErrNoChannels
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	var sub *Subscription
	sub = newSubscription(channels, handler, func() {
		b.remove(sub)
		if onDetach != nil {
			onDetach(channels)
		}
	})

	for _, ch := range channels {
		set, ok := b.subs[ch]
		if !ok {
			set = make(map[*Subscription]struct{})
			b.subs[ch] = set
		}
		set[sub] = struct{}{}
	}
	return sub, nil
}

func (b *Local) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range sub.channels {
		set, ok := b.subs[ch]
		if !ok {
			continue
		}
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, ch)
		}
	}
}

// Close shuts the bus down. Subsequent Emit and Subscribe calls return
// ErrBusClosed; existing subscription handles remain safe to Close.
func (b *Local) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	clear(b.subs)
	return nil
}

// SubscriberCount returns the number of subscriptions on a channel.
func (b *Local) SubscriberCount(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[channel])
}
