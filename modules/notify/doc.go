// Package notify is the mountable HTTP surface of the kit: the privileged
// emit endpoint, paginated listing in both pagination modes, read-state
// mutations and the two streaming endpoints (SSE and WebSocket).
//
// The module wires the store, the event bus and the stream gateway together
// but owns no policy of its own; authentication, sessions and rate limiting
// belong to the host application's middleware.
//
//	store := notifications.NewMemoryStore()
//	bus := eventbus.NewLocal()
//	gw := stream.New(bus, channels.NewStoreRegistry(store))
//
//	r := chi.NewRouter()
//	r.Mount("/notifications", notify.Router(notify.NewHandler(store, bus, gw)))
//
// Dispatcher is the producer-side service: it persists a notification first
// and then emits the delivery record on the receiver's user channel, so a
// failed push costs nothing: the record is already durable and the client's
// next fetch picks it up.
//
// Client adapts the HTTP API to the syncengine Fetcher and Mutator
// interfaces for Go consumers.
package notify
