package eventbus

import "errors"

var (
	// ErrBusClosed is returned when operations are attempted on a closed bus.
	ErrBusClosed = errors.New("eventbus: bus is closed")

	// ErrMissingChannel is returned when an event has no channel.
	ErrMissingChannel = errors.New("eventbus: channel is required")

	// ErrNoChannels is returned when Subscribe is called with no channels.
	ErrNoChannels = errors.New("eventbus: at least one channel is required")
)
