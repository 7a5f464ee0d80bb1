package stream

import "errors"

var (
	// ErrGatewayClosed is returned when a connection is opened on a closed gateway.
	ErrGatewayClosed = errors.New("stream: gateway is closed")

	// ErrMissingUserID is returned when a connection is opened without a user.
	ErrMissingUserID = errors.New("stream: user ID is required")
)
