// Package eventbus provides the publish/subscribe primitive the streaming
// layer is built on: named channels, multi-channel subscriptions and two
// interchangeable backends behind one Bus interface.
//
// The Local backend is a process-local channel map with synchronous delivery.
// The Redis backend publishes serialized events through Redis pub/sub so
// streaming connections on different nodes receive the same logical event; it
// holds a single persistent subscriber connection per process and fans
// incoming broker messages out to local subscriptions.
//
// Delivery is fire-and-forget: at most once per connected subscriber, zero if
// the subscriber is offline. Nothing is buffered for absent subscribers;
// missed events are recovered by the client's next paginated fetch, not by
// the bus.
//
// Basic usage:
//
//	bus := eventbus.NewLocal()
//	defer bus.Close()
//
//	sub, err := bus.Subscribe(ctx, []string{"user:7", "billing"}, func(e eventbus.Event) {
//		// fires for events published to either channel
//	})
//	defer sub.Close()
//
//	evt, _ := eventbus.NewEvent("user:7", "notification", payload)
//	bus.Emit(ctx, evt)
package eventbus
