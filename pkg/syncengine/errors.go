package syncengine

import "errors"

// ErrEngineClosed is returned when operations are attempted after Close.
var ErrEngineClosed = errors.New("syncengine: engine is closed")
