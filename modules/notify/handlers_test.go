package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/modules/notify"
	"github.com/dmitrymomot/notifyhub/pkg/channels"
	"github.com/dmitrymomot/notifyhub/pkg/eventbus"
	"github.com/dmitrymomot/notifyhub/pkg/notifications"
	"github.com/dmitrymomot/notifyhub/pkg/stream"
)

func newTestServer(t *testing.T) (*httptest.Server, *notifications.MemoryStore, eventbus.Bus) {
	t.Helper()

	store := notifications.NewMemoryStore()
	bus := eventbus.NewLocal()
	gw := stream.New(bus, channels.NewStoreRegistry(store))
	t.Cleanup(func() { gw.Close() })

	h := notify.NewHandler(store, bus, gw)
	srv := httptest.NewServer(notify.Router(h))
	t.Cleanup(srv.Close)

	return srv, store, bus
}

func seed(t *testing.T, store *notifications.MemoryStore, userID string, count int) []notifications.DeliveryRecord {
	t.Helper()

	sender := notifications.Sender{ID: "system", Name: "System"}
	records := make([]notifications.DeliveryRecord, 0, count)
	for i := 0; i < count; i++ {
		rec, err := store.Create(context.Background(), userID, sender, notifications.Notification{
			Message: "hello",
		})
		require.NoError(t, err)
		records = append(records, rec)
	}
	return records
}

func TestListNotifications(t *testing.T) {
	t.Parallel()

	t.Run("page mode with defaults", func(t *testing.T) {
		t.Parallel()

		srv, store, _ := newTestServer(t)
		seed(t, store, "u1", 3)

		resp, err := http.Get(srv.URL + "/users/u1/notifications")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page notifications.Page
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Len(t, page.Records, 3)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 3, page.UnreadTotal)
		assert.False(t, page.HasMore)
		// Strictly newest first.
		for i := 1; i < len(page.Records); i++ {
			assert.Greater(t, page.Records[i-1].Notification.ID, page.Records[i].Notification.ID)
		}
	})

	t.Run("cursor mode", func(t *testing.T) {
		t.Parallel()

		srv, store, _ := newTestServer(t)
		recs := seed(t, store, "u2", 5)

		resp, err := http.Get(srv.URL + "/users/u2/notifications?cursor=0&limit=2")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page notifications.Page
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		require.Len(t, page.Records, 2)
		assert.Equal(t, recs[4].Notification.ID, page.Records[0].Notification.ID)
		assert.True(t, page.HasMore)
		assert.Equal(t, page.Records[1].Notification.ID, page.NextCursor)
	})

	t.Run("invalid page", func(t *testing.T) {
		t.Parallel()

		srv, _, _ := newTestServer(t)

		resp, err := http.Get(srv.URL + "/users/u3/notifications?page=abc")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestMarkRead(t *testing.T) {
	t.Parallel()

	t.Run("marks and decrements unread", func(t *testing.T) {
		t.Parallel()

		srv, store, _ := newTestServer(t)
		recs := seed(t, store, "u1", 2)

		endpoint := srv.URL + "/" + itoa(recs[0].Notification.ID) + "/read?userId=u1"
		req, err := http.NewRequest(http.MethodPatch, endpoint, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		unread, err := store.CountUnread(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, unread)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		t.Parallel()

		srv, _, _ := newTestServer(t)

		req, err := http.NewRequest(http.MethodPatch, srv.URL+"/999/read?userId=u1", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing userId returns 400", func(t *testing.T) {
		t.Parallel()

		srv, _, _ := newTestServer(t)

		req, err := http.NewRequest(http.MethodPatch, srv.URL+"/1/read", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()

	srv, store, _ := newTestServer(t)
	seed(t, store, "u1", 3)

	resp, err := http.Post(srv.URL+"/users/u1/notifications/read-all", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	unread, err := store.CountUnread(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, unread)
}

func TestEmitEvent(t *testing.T) {
	t.Parallel()

	t.Run("delivers to subscribers", func(t *testing.T) {
		t.Parallel()

		srv, _, bus := newTestServer(t)

		received := make(chan eventbus.Event, 1)
		sub, err := bus.Subscribe(context.Background(), []string{"room:42"}, func(e eventbus.Event) {
			received <- e
		})
		require.NoError(t, err)
		defer sub.Close()

		body := `{"channel":"room:42","type":"ping","data":{"n":1}}`
		resp, err := http.Post(srv.URL+"/events", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		select {
		case evt := <-received:
			assert.Equal(t, "room:42", evt.Channel)
			assert.Equal(t, "ping", evt.Type)
			assert.NotEmpty(t, evt.ID)
		case <-time.After(time.Second):
			t.Fatal("event was not delivered")
		}
	})

	t.Run("broker failure still returns ok", func(t *testing.T) {
		t.Parallel()

		srv, _, bus := newTestServer(t)
		require.NoError(t, bus.Close())

		body := `{"channel":"room:42","type":"ping"}`
		resp, err := http.Post(srv.URL+"/events", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, true, out["ok"])
	})

	t.Run("missing channel returns 400", func(t *testing.T) {
		t.Parallel()

		srv, _, _ := newTestServer(t)

		resp, err := http.Post(srv.URL+"/events", "application/json", bytes.NewBufferString(`{"type":"ping"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		t.Parallel()

		srv, _, _ := newTestServer(t)

		resp, err := http.Post(srv.URL+"/events", "application/json", bytes.NewBufferString(`{`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
