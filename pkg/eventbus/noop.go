package eventbus

import "context"

// NewNoOp creates a bus that delivers nothing. Emits vanish and handlers
// never fire. Useful in tests and in single-process setups that only need
// the paginated backfill path.
func NewNoOp() Bus {
	return &noOpBus{}
}

type noOpBus struct{}

func (n *noOpBus) Emit(ctx context.Context, event Event) error {
	if event.Channel == "" {
		return ErrMissingChannel
	}
	return nil
}

func (n *noOpBus) Subscribe(ctx context.Context, channels []string, handler Handler) (*Subscription, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	sub := newSubscription(channels, handler, func() {})
	watchContext(ctx, sub)
	return sub, nil
}

func (n *noOpBus) Close() error { return nil }
