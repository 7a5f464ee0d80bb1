// Package redis provides the Redis connectivity helpers used by the
// multi-node event bus backend.
//
// The package wraps the go-redis client and adds:
//
//   - `Connect`, which retries the initial connection using the supplied
//     configuration before giving up.
//   - A health-check helper to integrate Redis into liveness / readiness
//     probes.
//
// Configuration is described by the `Config` struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	cfg := redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  5 * time.Second,
//	    ConnectTimeout: 30 * time.Second,
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	bus := eventbus.NewRedis(client)
//
// # Errors
//
// The package defines several sentinel errors (e.g. ErrRedisNotReady) that
// wrap the underlying go-redis errors using errors.Join.
package redis
