// Package syncengine reconciles the three independent views a connected
// client has of its notification list (paginated fetches, at-least-once push
// events and local optimistic edits) into one ordered, deduplicated,
// read-state-consistent state.
//
// Two invariants hold after every operation: the accumulated records are
// strictly descending by notification ID with no duplicates, and every record
// merged from any page or push stays present until an explicit reset.
//
// The state transitions (MergePage, MergePush, MarkRead, MarkAllRead) are
// pure functions of (State, input) -> State so they can be reasoned about and
// tested in isolation. Engine wraps them behind a single mutex: the original
// design relies on a single-threaded event loop to serialize pages, pushes
// and user actions, and the mutex restores that serialization in a
// multi-goroutine runtime.
//
// Wiring a client:
//
//	engine := syncengine.New(fetcher, mutator)
//	if err := engine.Start(ctx); err != nil { ... }
//
//	// pushes from the stream connection
//	go func() {
//		for evt := range conn.Events() {
//			var rec notifications.DeliveryRecord
//			if json.Unmarshal(evt.Data, &rec) == nil {
//				engine.ApplyPush(rec)
//			}
//		}
//	}()
//
//	// on stream reconnect, close the gap left by missed pushes
//	_ = engine.Refresh(ctx)
//
// Mark-read mutations are optimistic: the local state changes before the
// store call resolves and is not rolled back on failure. A failed mutation is
// logged and returned; the next full refetch self-corrects any divergence.
package syncengine
