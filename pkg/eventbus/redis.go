package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Redis is the multi-node Bus backend. Emit publishes the serialized event
// through Redis pub/sub; every node's receive loop deserializes incoming
// messages and re-emits them into an in-process Local bus, so subscriptions
// on different nodes observe the same logical event stream.
//
// The backend holds exactly one persistent subscriber connection per process,
// regardless of how many subscriptions exist: broker channels are refcounted
// and joined/left on that single connection as local subscriptions come and
// go. This keeps broker connection usage flat under many concurrent clients.
type Redis struct {
	client redis.UniversalClient
	local  *Local
	pubsub *redis.PubSub
	refs   map[string]int // broker channel -> local subscription count
	logger *slog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.Mutex
}

var _ Bus = (*Redis)(nil)

// RedisOption configures the Redis bus.
type RedisOption func(*Redis)

// WithRedisLogger sets the logger for the receive loop.
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(b *Redis) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewRedis creates a Redis-backed bus and starts its receive loop.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	ctx, cancel := context.WithCancel(context.Background())

	b := &Redis{
		client: client,
		local:  NewLocal(),
		refs:   make(map[string]int),
		logger: slog.Default(),
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(b)
	}

	// Single subscriber connection for the whole process; channels are
	// added and removed on it as subscriptions come and go.
	b.pubsub = client.Subscribe(ctx)

	b.wg.Add(1)
	go b.receiveLoop(ctx)

	return b
}

func (b *Redis) Emit(ctx context.Context, event Event) error {
	if event.Channel == "" {
		return ErrMissingChannel
	}

	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBusClosed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, event.Channel, payload).Err()
}

func (b *Redis) Subscribe(ctx context.Context, channels []string, handler Handler) (*Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	b.mu.Unlock()

	sub, err := b.local.add(channels, handler, b.release)
	if err != nil {
		return nil, err
	}

	if err := b.acquire(ctx, sub.Channels()); err != nil {
		_ = sub.Close()
		return nil, err
	}

	watchContext(ctx, sub)
	return sub, nil
}

// acquire bumps refcounts and joins newly-referenced broker channels on the
// shared subscriber connection.
func (b *Redis) acquire(ctx context.Context, channels []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}

	joined := make([]string, 0, len(channels))
	for _, ch := range channels {
		b.refs[ch]++
		if b.refs[ch] == 1 {
			joined = append(joined, ch)
		}
	}
	if len(joined) == 0 {
		return nil
	}
	return b.pubsub.Subscribe(ctx, joined...)
}

// release drops refcounts and leaves broker channels nobody listens on.
// Runs from Subscription.Close.
func (b *Redis) release(channels []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	left := make([]string, 0, len(channels))
	for _, ch := range channels {
		if b.refs[ch] == 0 {
			continue
		}
		b.refs[ch]--
		if b.refs[ch] == 0 {
			delete(b.refs, ch)
			left = append(left, ch)
		}
	}
	if len(left) == 0 {
		return
	}
	if err := b.pubsub.Unsubscribe(context.Background(), left...); err != nil {
		b.logger.Warn("eventbus: failed to leave broker channels",
			slog.Any("channels", left), slog.Any("error", err))
	}
}

// receiveLoop fans broker messages out to local subscriptions. A message
// that fails to decode is dropped and logged; the client backfill path owns
// recovery, the loop never stops for a bad payload.
func (b *Redis) receiveLoop(ctx context.Context) {
	defer b.wg.Done()

	ch := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("eventbus: dropping malformed broker message",
					slog.String("channel", msg.Channel), slog.Any("error", err))
				continue
			}
			// Route by the broker channel the message arrived on.
			event.Channel = msg.Channel
			if err := b.local.Emit(ctx, event); err != nil {
				b.logger.Warn("eventbus: local fan-out failed",
					slog.String("channel", msg.Channel), slog.Any("error", err))
			}
		}
	}
}

// Close stops the receive loop, closes the subscriber connection and shuts
// down the in-process fan-out. The Redis client itself is owned by the
// caller and stays open.
func (b *Redis) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	clear(b.refs)
	b.mu.Unlock()

	b.cancel()
	err := b.pubsub.Close()
	b.wg.Wait()
	_ = b.local.Close()
	return err
}
