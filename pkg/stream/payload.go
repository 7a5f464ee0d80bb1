package stream

import (
	"encoding/json"

	"github.com/dmitrymomot/notifyhub/pkg/eventbus"
)

// PushPayload is the wire shape delivered over both adapters:
// {"event": <channel-or-type>, "data": <payload>}.
type PushPayload struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func payloadFor(event eventbus.Event) PushPayload {
	name := event.Type
	if name == "" {
		name = event.Channel
	}
	return PushPayload{Event: name, Data: event.Data}
}
