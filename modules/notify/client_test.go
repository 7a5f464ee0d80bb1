package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/modules/notify"
	"github.com/dmitrymomot/notifyhub/pkg/notifications"
	"github.com/dmitrymomot/notifyhub/pkg/syncengine"
)

func TestClientFetchPage(t *testing.T) {
	t.Parallel()

	t.Run("page mode walks every page", func(t *testing.T) {
		t.Parallel()

		srv, store, _ := newTestServer(t)
		seed(t, store, "u1", 5)

		client := notify.NewClient(srv.URL, "u1", notify.WithPageSize(2))

		first, err := client.FetchPage(context.Background(), syncengine.PageMarker(1))
		require.NoError(t, err)
		require.Len(t, first.Records, 2)
		assert.True(t, first.HasMore)
		assert.Equal(t, syncengine.PageMarker(2), first.NextMarker)
		assert.Equal(t, 5, first.UnreadTotal)

		last, err := client.FetchPage(context.Background(), syncengine.PageMarker(3))
		require.NoError(t, err)
		require.Len(t, last.Records, 1)
		assert.False(t, last.HasMore)
		assert.Empty(t, last.NextMarker)
	})

	t.Run("cursor mode chains cursors", func(t *testing.T) {
		t.Parallel()

		srv, store, _ := newTestServer(t)
		recs := seed(t, store, "u2", 4)

		client := notify.NewClient(srv.URL, "u2", notify.WithPageSize(2))

		first, err := client.FetchPage(context.Background(), syncengine.CursorMarker(0))
		require.NoError(t, err)
		require.Len(t, first.Records, 2)
		assert.Equal(t, recs[3].Notification.ID, first.Records[0].Notification.ID)
		require.True(t, first.HasMore)

		second, err := client.FetchPage(context.Background(), first.NextMarker)
		require.NoError(t, err)
		require.Len(t, second.Records, 2)
		assert.Equal(t, recs[1].Notification.ID, second.Records[0].Notification.ID)
		assert.False(t, second.HasMore)
	})

	t.Run("rejects unknown marker", func(t *testing.T) {
		t.Parallel()

		srv, _, _ := newTestServer(t)
		client := notify.NewClient(srv.URL, "u3")

		_, err := client.FetchPage(context.Background(), syncengine.Marker("bogus"))
		assert.Error(t, err)
	})
}

func TestClientMutations(t *testing.T) {
	t.Parallel()

	t.Run("mark read", func(t *testing.T) {
		t.Parallel()

		srv, store, _ := newTestServer(t)
		recs := seed(t, store, "u1", 2)

		client := notify.NewClient(srv.URL, "u1")
		require.NoError(t, client.MarkRead(context.Background(), recs[0].Notification.ID))

		unread, err := store.CountUnread(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, unread)
	})

	t.Run("mark read unknown id", func(t *testing.T) {
		t.Parallel()

		srv, _, _ := newTestServer(t)
		client := notify.NewClient(srv.URL, "u1")

		err := client.MarkRead(context.Background(), 12345)
		assert.ErrorIs(t, err, notifications.ErrNotFound)
	})

	t.Run("mark all read", func(t *testing.T) {
		t.Parallel()

		srv, store, _ := newTestServer(t)
		seed(t, store, "u2", 3)

		client := notify.NewClient(srv.URL, "u2")
		require.NoError(t, client.MarkAllRead(context.Background()))

		unread, err := store.CountUnread(context.Background(), "u2")
		require.NoError(t, err)
		assert.Equal(t, 0, unread)
	})
}

func TestClientDrivesEngine(t *testing.T) {
	t.Parallel()

	srv, store, _ := newTestServer(t)
	seed(t, store, "u1", 5)

	client := notify.NewClient(srv.URL, "u1", notify.WithPageSize(2))
	engine := syncengine.New(client, client)
	defer engine.Close()

	require.NoError(t, engine.Start(context.Background()))
	assert.Len(t, engine.Records(), 2)
	assert.Equal(t, 5, engine.Unread())

	require.NoError(t, engine.LoadMore(context.Background()))
	require.NoError(t, engine.LoadMore(context.Background()))
	assert.Len(t, engine.Records(), 5)
	assert.False(t, engine.HasMore())

	require.NoError(t, engine.MarkRead(context.Background(), engine.Records()[0].Notification.ID))
	assert.Equal(t, 4, engine.Unread())

	unread, err := store.CountUnread(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, unread)
}
