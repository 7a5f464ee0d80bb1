package stream

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks belong to the host application's middleware.
		return true
	},
}

// ServeWS upgrades the request to a WebSocket and streams the user's events
// as JSON frames until the peer disconnects or the gateway shuts down.
// Blocks for the connection lifetime.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	if userID == "" {
		http.Error(w, ErrMissingUserID.Error(), http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the response.
		return
	}

	conn, err := g.Open(r.Context(), userID)
	if err != nil {
		_ = ws.Close()
		return
	}
	defer conn.Close()
	defer ws.Close()

	// Reader loop exists only to surface disconnects and answer pings;
	// clients never send application messages upstream.
	go func() {
		defer conn.Close()
		ws.SetReadLimit(512)
		_ = ws.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(g.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-conn.Done():
			return
		case event := <-conn.Events():
			_ = ws.SetWriteDeadline(time.Now().Add(g.writeTimeout))
			if err := ws.WriteJSON(payloadFor(event)); err != nil {
				g.logger.Debug("stream: websocket write failed",
					slog.String("connection_id", conn.ID()),
					slog.String("user_id", userID),
					slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(g.writeTimeout))
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(g.writeTimeout)); err != nil {
				return
			}
		}
	}
}
