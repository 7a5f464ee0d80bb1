package stream

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ServeSSE streams the user's events as Server-Sent Events until the client
// disconnects or the gateway shuts down. Blocks for the connection lifetime.
func (g *Gateway) ServeSSE(w http.ResponseWriter, r *http.Request, userID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	conn, err := g.Open(r.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if err == ErrMissingUserID {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	defer conn.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(g.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-conn.Done():
			return
		case event := <-conn.Events():
			payload := payloadFor(event)
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", payload.Event, payload.Data); err != nil {
				g.logger.Debug("stream: sse write failed",
					slog.String("connection_id", conn.ID()),
					slog.String("user_id", userID),
					slog.Any("error", err))
				return
			}
			flusher.Flush()
		case <-ticker.C:
			// Comment frame keeps intermediaries from timing out the stream.
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
