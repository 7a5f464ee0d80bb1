package eventbus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/eventbus"
)

func TestNoOpBus(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewNoOp()
	defer bus.Close()

	fired := false
	sub, err := bus.Subscribe(context.Background(), []string{"user:1"}, func(eventbus.Event) {
		fired = true
	})
	require.NoError(t, err)
	defer sub.Close()

	evt, err := eventbus.NewEvent("user:1", "notification", map[string]string{"m": "x"})
	require.NoError(t, err)
	require.NoError(t, bus.Emit(context.Background(), evt))
	assert.False(t, fired)

	assert.ErrorIs(t, bus.Emit(context.Background(), eventbus.Event{}), eventbus.ErrMissingChannel)

	_, err = bus.Subscribe(context.Background(), nil, func(eventbus.Event) {})
	assert.ErrorIs(t, err, eventbus.ErrNoChannels)
}
