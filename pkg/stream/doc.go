// Package stream accepts long-lived per-user streaming connections and
// bridges them to the event bus.
//
// Each connection walks a small state machine: CONNECTING while the user's
// channel set is resolved and subscribed, OPEN while events flow, CLOSED on
// client disconnect, write failure or shutdown. Entering CLOSED always closes
// the bus subscription; a subscription that outlives its connection keeps
// accumulating pushes and memory, which is the one resource leak this layer
// must never allow.
//
// Two wire adapters share the same gateway core: ServeSSE writes
// Server-Sent-Events frames, ServeWS speaks WebSocket via gorilla/websocket.
// Neither retries a failed push and neither waits for acknowledgments;
// recovery after a gap belongs to the client's paginated backfill.
package stream
