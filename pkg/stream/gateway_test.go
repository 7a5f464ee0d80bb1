package stream_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/channels"
	"github.com/dmitrymomot/notifyhub/pkg/eventbus"
	"github.com/dmitrymomot/notifyhub/pkg/stream"
)

const (
	waitTimeout = time.Second
	waitTick    = 10 * time.Millisecond
)

func TestGatewayOpen(t *testing.T) {
	t.Parallel()

	t.Run("subscribes the resolved channel set", func(t *testing.T) {
		t.Parallel()

		bus := eventbus.NewLocal()
		defer bus.Close()
		gw := stream.New(bus, channels.Static{"7": {"billing"}})
		defer gw.Close()

		conn, err := gw.Open(context.Background(), "7")
		require.NoError(t, err)
		defer conn.Close()

		assert.Equal(t, stream.StateOpen, conn.State())
		assert.Equal(t, 1, bus.SubscriberCount("user:7"))
		assert.Equal(t, 1, bus.SubscriberCount("billing"))
		assert.Equal(t, 1, gw.ConnectionCount("7"))
	})

	t.Run("requires a user", func(t *testing.T) {
		t.Parallel()

		gw := stream.New(eventbus.NewLocal(), channels.Static{})
		defer gw.Close()

		_, err := gw.Open(context.Background(), "")
		assert.ErrorIs(t, err, stream.ErrMissingUserID)
	})
}

func TestGatewayDelivery(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewLocal()
	defer bus.Close()
	gw := stream.New(bus, channels.Static{"7": {"billing"}})
	defer gw.Close()

	conn, err := gw.Open(context.Background(), "7")
	require.NoError(t, err)
	defer conn.Close()

	evt, err := eventbus.NewEvent("billing", "notification", map[string]any{"id": 1})
	require.NoError(t, err)
	require.NoError(t, bus.Emit(context.Background(), evt))

	select {
	case got := <-conn.Events():
		assert.Equal(t, "billing", got.Channel)
		assert.Equal(t, evt.ID, got.ID)
	case <-time.After(waitTimeout):
		t.Fatal("expected event on connection")
	}
}

func TestGatewayClose(t *testing.T) {
	t.Parallel()

	t.Run("close releases the subscription", func(t *testing.T) {
		t.Parallel()

		bus := eventbus.NewLocal()
		defer bus.Close()
		gw := stream.New(bus, channels.Static{})
		defer gw.Close()

		conn, err := gw.Open(context.Background(), "7")
		require.NoError(t, err)
		require.Equal(t, 1, bus.SubscriberCount("user:7"))

		conn.Close()
		conn.Close() // idempotent

		assert.Equal(t, stream.StateClosed, conn.State())
		assert.Zero(t, bus.SubscriberCount("user:7"))
		assert.Zero(t, gw.ConnectionCount("7"))

		select {
		case <-conn.Done():
		default:
			t.Fatal("expected done channel to be closed")
		}
	})

	t.Run("gateway close tears down all connections", func(t *testing.T) {
		t.Parallel()

		bus := eventbus.NewLocal()
		defer bus.Close()
		gw := stream.New(bus, channels.Static{})

		a, err := gw.Open(context.Background(), "7")
		require.NoError(t, err)
		b, err := gw.Open(context.Background(), "8")
		require.NoError(t, err)

		require.NoError(t, gw.Close())

		assert.Equal(t, stream.StateClosed, a.State())
		assert.Equal(t, stream.StateClosed, b.State())
		assert.Zero(t, bus.SubscriberCount("user:7"))
		assert.Zero(t, bus.SubscriberCount("user:8"))

		_, err = gw.Open(context.Background(), "7")
		assert.ErrorIs(t, err, stream.ErrGatewayClosed)
	})
}

func TestGatewaySlowConnectionDropsPushes(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewLocal()
	defer bus.Close()
	gw := stream.New(bus, channels.Static{}, stream.WithBufferSize(1))
	defer gw.Close()

	conn, err := gw.Open(context.Background(), "7")
	require.NoError(t, err)
	defer conn.Close()

	// Nobody drains the connection; the second emit must not block.
	for i := 0; i < 3; i++ {
		evt, err := eventbus.NewEvent("user:7", "", i)
		require.NoError(t, err)
		require.NoError(t, bus.Emit(context.Background(), evt))
	}

	assert.Len(t, conn.Events(), 1)
}

func TestGatewayMetricsCallback(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewLocal()
	defer bus.Close()

	var counts []int
	gw := stream.New(bus, channels.Static{}, stream.WithMetricsCallback(func(userID string, open int) {
		counts = append(counts, open)
	}))
	defer gw.Close()

	conn, err := gw.Open(context.Background(), "7")
	require.NoError(t, err)
	conn2, err := gw.Open(context.Background(), "7")
	require.NoError(t, err)
	conn.Close()
	conn2.Close()

	assert.Equal(t, []int{1, 2, 1, 0}, counts)
}
