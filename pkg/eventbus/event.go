package eventbus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the fixed-schema record flowing through the bus. Data carries the
// already-serialized payload so both backends can forward it without knowing
// its shape.
type Event struct {
	ID      string          `json:"id"`
	Channel string          `json:"channel"`
	Type    string          `json:"type,omitempty"`
	Data    json.RawMessage `json:"data"`
	Time    time.Time       `json:"time"`
}

// Handler consumes events delivered to a subscription. Handlers run on the
// emitter's goroutine (Local) or the bus receive loop (Redis) and must not
// block; long work belongs on the handler's own goroutine or channel.
type Handler func(Event)

// NewEvent builds an event for a channel, serializing the payload and
// assigning a fresh ID and timestamp.
func NewEvent(channel, eventType string, payload any) (Event, error) {
	if channel == "" {
		return Event{}, ErrMissingChannel
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{
		ID:      uuid.New().String(),
		Channel: channel,
		Type:    eventType,
		Data:    data,
		Time:    time.Now(),
	}, nil
}
