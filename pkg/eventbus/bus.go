package eventbus

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Bus routes events from emitters to channel subscriptions.
// Implementations must be safe for concurrent use.
type Bus interface {
	// Emit publishes an event to its channel. Fire-and-forget: a returned
	// error means the event never left this process (validation, closed bus,
	// unreachable broker), never that a subscriber failed to consume it.
	Emit(ctx context.Context, event Event) error

	// Subscribe registers a handler for the union of the given channels:
	// the handler fires once for an event published to any one of them.
	// The subscription is closed automatically when ctx is cancelled.
	Subscribe(ctx context.Context, channels []string, handler Handler) (*Subscription, error)

	// Close shuts the bus down and detaches every subscription.
	Close() error
}

// Subscription is the handle returned by Subscribe. Close detaches the
// handler; it is idempotent and must be called when the consumer goes away:
// a subscription that outlives its connection keeps receiving pushes and
// holds bus memory.
type Subscription struct {
	id       string
	channels []string
	handler  Handler
	detach   func()
	once     sync.Once
}

func newSubscription(channels []string, handler Handler, detach func()) *Subscription {
	return &Subscription{
		id:       uuid.New().String(),
		channels: channels,
		handler:  handler,
		detach:   detach,
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Channels returns the channel set the subscription listens on.
func (s *Subscription) Channels() []string {
	out := make([]string, len(s.channels))
	copy(out, s.channels)
	return out
}

// Close detaches the subscription from its bus. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.detach)
	return nil
}

// watchContext closes the subscription when ctx is cancelled.
func watchContext(ctx context.Context, sub *Subscription) {
	if ctx.Done() == nil {
		return
	}
	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()
}

// dedupe drops duplicate and empty channel names, preserving order.
func dedupe(channels []string) []string {
	seen := make(map[string]struct{}, len(channels))
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		if ch == "" {
			continue
		}
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}
	return out
}
