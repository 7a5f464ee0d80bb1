package notifications

import "time"

// Notification is the producer-authored payload. Immutable once created
// except for IsArchived.
type Notification struct {
	ID             int64          `json:"id"`
	Message        string         `json:"message"`
	Link           string         `json:"link,omitempty"`
	AdditionalData map[string]any `json:"additionalData,omitempty"`
	IsArchived     bool           `json:"isArchived"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Sender identifies the account a notification originates from.
// Denormalized onto every delivery record so clients can render it
// without a second lookup.
type Sender struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// DeliveryRecord pairs a notification with a single receiver and its read
// state. IsRead transitions false to true exactly once logically; marking an
// already-read record is a no-op.
type DeliveryRecord struct {
	Notification Notification `json:"notification"`
	ReceiverID   string       `json:"receiverId"`
	Sender       Sender       `json:"sender"`
	IsRead       bool         `json:"isRead"`
}

// MarkAsRead marks the record as read.
func (r *DeliveryRecord) MarkAsRead() {
	r.IsRead = true
}
