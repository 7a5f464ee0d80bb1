package notifications

import (
	"context"
)

// Page is the result of a paginated listing. Records are ordered strictly
// descending by notification ID. UnreadTotal is the server-authoritative
// unread counter at the time of the query.
type Page struct {
	Records     []DeliveryRecord `json:"content"`
	Page        int              `json:"page,omitempty"`
	PageSize    int              `json:"pageSize,omitempty"`
	NextCursor  int64            `json:"nextCursor,omitempty"`
	HasMore     bool             `json:"hasMore"`
	UnreadTotal int              `json:"unReadTotal"`
}

// Store is the persistence contract for notifications, delivery records and
// channel memberships. Implementations must be safe for concurrent use.
//
// Delivery records are never deleted; archival marks the parent notification
// only. Notification IDs are assigned by the store and are monotonically
// increasing, which is what the client-side ordering invariant relies on.
type Store interface {
	// Create stores a notification targeted at receiverID and returns the
	// resulting delivery record with the assigned notification ID.
	Create(ctx context.Context, receiverID string, sender Sender, notif Notification) (DeliveryRecord, error)

	// ListPage returns the given page (1-based) of receiverID's delivery
	// records, newest first.
	ListPage(ctx context.Context, receiverID string, page, pageSize int) (Page, error)

	// ListAfterCursor returns up to limit delivery records older than the
	// cursor (a notification ID), newest first. A zero cursor means "from
	// the top".
	ListAfterCursor(ctx context.Context, receiverID string, cursor int64, limit int) (Page, error)

	// MarkRead marks a single delivery record as read. Marking an
	// already-read record is a no-op, not an error.
	MarkRead(ctx context.Context, receiverID string, notificationID int64) error

	// MarkAllRead marks every delivery record of receiverID as read.
	MarkAllRead(ctx context.Context, receiverID string) error

	// CountUnread returns the number of unread delivery records.
	CountUnread(ctx context.Context, receiverID string) (int, error)

	// Archive marks the parent notification as archived for every receiver.
	Archive(ctx context.Context, notificationID int64) error

	// Groups returns the named group channels receiverID has joined.
	// Read once at stream-connection time by the channel registry.
	Groups(ctx context.Context, receiverID string) ([]string, error)
}
