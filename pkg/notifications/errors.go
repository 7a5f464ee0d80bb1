package notifications

import "errors"

var (
	// ErrNotFound is returned when a notification or delivery record does not exist.
	ErrNotFound = errors.New("notification not found")

	// ErrMissingReceiver is returned when a receiver ID is required but empty.
	ErrMissingReceiver = errors.New("receiver ID is required")
)
