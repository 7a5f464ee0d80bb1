package stream

import "time"

type Config struct {
	BufferSize   int           `env:"STREAM_BUFFER_SIZE" envDefault:"32"`    // BufferSize is the per-connection event buffer; a full buffer drops pushes.
	PingInterval time.Duration `env:"STREAM_PING_INTERVAL" envDefault:"30s"` // PingInterval is the keepalive interval for SSE comments and WebSocket pings.
	WriteTimeout time.Duration `env:"STREAM_WRITE_TIMEOUT" envDefault:"10s"` // WriteTimeout is the per-frame write deadline on WebSocket connections.
}
