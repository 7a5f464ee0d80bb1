// Package notifications defines the notification data model and the store
// contract the rest of the kit is built against.
//
// A Notification is the immutable fact authored by a producer. A
// DeliveryRecord pairs one notification with one receiver and carries the
// receiver's read state; it is the unit clients display and paginate over.
//
// The Store interface is the persistence contract. Durable implementations
// (SQL, document store) live with the host application; this package ships
// MemoryStore so the kit and its tests are self-contained:
//
//	store := notifications.NewMemoryStore()
//	rec, err := store.Create(ctx, "user-7", sender, notifications.Notification{
//		Message: "Your export is ready",
//		Link:    "/exports/42",
//	})
//
// Both offset pagination (first page, simple consumers) and cursor pagination
// (incremental "load more") are part of the contract and return the same Page
// shape, including the server-authoritative unread counter.
package notifications
