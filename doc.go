// Package notifyhub is a toolkit for real-time notification delivery.
//
// The server side publishes events on named channels through an event bus
// (in-process or Redis backed) and streams them to connected clients over
// SSE or WebSocket. The client side keeps one ordered, deduplicated list of
// notifications by merging paginated fetches, pushed records, and local
// read-state mutations.
//
// Packages:
//
//   - pkg/eventbus: channel-based pub/sub with Local, Redis, and NoOp backends
//   - pkg/channels: resolves the channel set a user listens on
//   - pkg/notifications: notification data model and store contract
//   - pkg/stream: per-connection fan-out with SSE and WebSocket adapters
//   - pkg/syncengine: client-side list synchronization
//   - modules/notify: chi HTTP surface tying the above together
//
// Minimal server wiring:
//
//	store := notifications.NewMemoryStore()
//	bus := eventbus.NewLocal()
//	gw := stream.New(bus, channels.NewStoreRegistry(store))
//
//	r := chi.NewRouter()
//	r.Mount("/notifications", notify.Router(notify.NewHandler(store, bus, gw)))
package notifyhub
