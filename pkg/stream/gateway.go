package stream

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifyhub/pkg/channels"
	"github.com/dmitrymomot/notifyhub/pkg/eventbus"
)

// State is the lifecycle state of a streaming connection.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Conn is one open streaming connection. Events pushed to any of the user's
// channels arrive on Events; when the connection's buffer is full the event
// is dropped, since the client heals gaps through its next paginated fetch.
type Conn struct {
	id      string
	userID  string
	gateway *Gateway
	sub     *eventbus.Subscription
	events  chan eventbus.Event
	done    chan struct{}
	state   atomic.Int32
	once    sync.Once
}

// ID returns the connection identifier.
func (c *Conn) ID() string { return c.id }

// UserID returns the user the connection belongs to.
func (c *Conn) UserID() string { return c.userID }

// State returns the current lifecycle state.
func (c *Conn) State() State { return State(c.state.Load()) }

// Events returns the channel incoming pushes are delivered on.
func (c *Conn) Events() <-chan eventbus.Event { return c.events }

// Done is closed when the connection transitions to CLOSED.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Close transitions the connection to CLOSED and unconditionally releases
// its bus subscription. Safe to call from any goroutine, any number of times.
func (c *Conn) Close() {
	c.once.Do(func() {
		c.state.Store(int32(StateClosed))
		if c.sub != nil {
			_ = c.sub.Close()
		}
		close(c.done)
		c.gateway.remove(c)
	})
}

// push is the bus handler: a non-blocking hand-off to the connection's
// writer. Emit must never wait on a subscriber, so a full buffer drops
// the event instead of blocking the push path.
func (c *Conn) push(event eventbus.Event) {
	if c.State() == StateClosed {
		return
	}
	select {
	case c.events <- event:
	default:
		c.gateway.logger.Debug("stream: dropping push for slow connection",
			slog.String("connection_id", c.id),
			slog.String("user_id", c.userID),
			slog.String("channel", event.Channel))
	}
}

// Gateway owns streaming connections: it resolves the user's channel set,
// subscribes each new connection on the bus and guarantees teardown.
type Gateway struct {
	bus          eventbus.Bus
	registry     channels.Registry
	logger       *slog.Logger
	bufferSize   int
	pingInterval time.Duration
	writeTimeout time.Duration
	metrics      func(userID string, open int)

	conns  map[string]*Conn
	byUser map[string]int
	closed bool
	mu     sync.RWMutex
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithBufferSize sets the per-connection event buffer.
func WithBufferSize(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.bufferSize = n
		}
	}
}

// WithPingInterval sets the keepalive interval for both wire adapters.
func WithPingInterval(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.pingInterval = d
		}
	}
}

// WithWriteTimeout sets the per-frame write deadline for the WebSocket adapter.
func WithWriteTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.writeTimeout = d
		}
	}
}

// WithMetricsCallback registers a callback invoked with the per-user open
// connection count after every open and close.
func WithMetricsCallback(fn func(userID string, open int)) Option {
	return func(g *Gateway) {
		g.metrics = fn
	}
}

// New creates a gateway on top of the given bus and channel registry.
func New(bus eventbus.Bus, registry channels.Registry, opts ...Option) *Gateway {
	g := &Gateway{
		bus:          bus,
		registry:     registry,
		logger:       slog.Default(),
		bufferSize:   32,
		pingInterval: 30 * time.Second,
		writeTimeout: 10 * time.Second,
		conns:        make(map[string]*Conn),
		byUser:       make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromConfig creates a gateway from the environment-driven Config.
func NewFromConfig(bus eventbus.Bus, registry channels.Registry, cfg Config, opts ...Option) *Gateway {
	configOpts := []Option{
		WithBufferSize(cfg.BufferSize),
		WithPingInterval(cfg.PingInterval),
		WithWriteTimeout(cfg.WriteTimeout),
	}
	return New(bus, registry, append(configOpts, opts...)...)
}

// Open resolves userID's channel set, subscribes a new connection on the bus
// and transitions it to OPEN. The channel set is resolved once; membership
// changes are picked up on the next reconnect.
func (g *Gateway) Open(ctx context.Context, userID string) (*Conn, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	g.mu.RLock()
	closed := g.closed
	g.mu.RUnlock()
	if closed {
		return nil, ErrGatewayClosed
	}

	conn := &Conn{
		id:      uuid.New().String(),
		userID:  userID,
		gateway: g,
		events:  make(chan eventbus.Event, g.bufferSize),
		done:    make(chan struct{}),
	}
	conn.state.Store(int32(StateConnecting))

	chans, err := g.registry.ChannelsFor(ctx, userID)
	if err != nil {
		conn.state.Store(int32(StateClosed))
		return nil, err
	}

	sub, err := g.bus.Subscribe(ctx, chans, conn.push)
	if err != nil {
		conn.state.Store(int32(StateClosed))
		return nil, err
	}
	conn.sub = sub

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		conn.Close()
		return nil, ErrGatewayClosed
	}
	g.conns[conn.id] = conn
	g.byUser[userID]++
	open := g.byUser[userID]
	g.mu.Unlock()

	conn.state.Store(int32(StateOpen))
	if g.metrics != nil {
		g.metrics(userID, open)
	}

	g.logger.Debug("stream: connection open",
		slog.String("connection_id", conn.id),
		slog.String("user_id", userID),
		slog.Any("channels", chans))
	return conn, nil
}

func (g *Gateway) remove(conn *Conn) {
	g.mu.Lock()
	if _, ok := g.conns[conn.id]; !ok {
		g.mu.Unlock()
		return
	}
	delete(g.conns, conn.id)
	g.byUser[conn.userID]--
	open := g.byUser[conn.userID]
	if open <= 0 {
		delete(g.byUser, conn.userID)
		open = 0
	}
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics(conn.userID, open)
	}

	g.logger.Debug("stream: connection closed",
		slog.String("connection_id", conn.id),
		slog.String("user_id", conn.userID))
}

// ConnectionCount returns the number of open connections for a user.
func (g *Gateway) ConnectionCount(userID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.byUser[userID]
}

// Close shuts the gateway down and closes every open connection.
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	open := make([]*Conn, 0, len(g.conns))
	for _, c := range g.conns {
		open = append(open, c)
	}
	g.mu.Unlock()

	for _, c := range open {
		c.Close()
	}
	return nil
}
