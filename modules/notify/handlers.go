package notify

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/notifyhub/pkg/eventbus"
	"github.com/dmitrymomot/notifyhub/pkg/notifications"
	"github.com/dmitrymomot/notifyhub/pkg/stream"
)

// Handler serves the notification HTTP surface: event ingestion, paginated
// listing, read-state mutations, and the live SSE/WebSocket endpoints.
type Handler struct {
	store   notifications.Store
	bus     eventbus.Bus
	gateway *stream.Gateway
	logger  *slog.Logger

	defaultPageSize int
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the logger for the Handler.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithDefaultPageSize overrides the page size used when the request omits it.
func WithDefaultPageSize(size int) HandlerOption {
	return func(h *Handler) {
		if size > 0 {
			h.defaultPageSize = size
		}
	}
}

// NewHandler creates the notification HTTP handler.
func NewHandler(store notifications.Store, bus eventbus.Bus, gateway *stream.Gateway, opts ...HandlerOption) *Handler {
	h := &Handler{
		store:           store,
		bus:             bus,
		gateway:         gateway,
		logger:          slog.Default(),
		defaultPageSize: 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type emitRequest struct {
	Channel string          `json:"channel"`
	Type    string          `json:"type,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// emit publishes an arbitrary event on a channel. The event is fire-and-forget
// for subscribers; the response only confirms the publish was accepted.
func (h *Handler) emit(w http.ResponseWriter, r *http.Request) {
	var req emitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Channel == "" {
		writeError(w, http.StatusBadRequest, "channel is required")
		return
	}

	evt := eventbus.Event{
		ID:      uuid.NewString(),
		Channel: req.Channel,
		Type:    req.Type,
		Data:    req.Data,
		Time:    time.Now().UTC(),
	}
	// Publish is fire-and-forget: infrastructure failures are logged and
	// healed by the client's next paginated fetch, never surfaced to the
	// producer. Only request validation above returns an error.
	if err := h.bus.Emit(r.Context(), evt); err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelWarn, "Failed to emit event",
			slog.String("channel", req.Channel),
			slog.Any("error", err),
		)
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// list returns a page of the user's delivery records. Presence of a cursor or
// limit parameter selects cursor mode; otherwise page mode with defaults
// page=1 and the handler's default page size.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	q := r.URL.Query()
	if q.Has("cursor") || q.Has("limit") {
		cursor, err := parseInt64Param(q.Get("cursor"), 0)
		if err != nil || cursor < 0 {
			writeError(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		limit, err := parseIntParam(q.Get("limit"), h.defaultPageSize)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		page, err := h.store.ListAfterCursor(r.Context(), userID, cursor, limit)
		if err != nil {
			h.logStoreError(r, "Failed to list notifications", userID, err)
			writeError(w, http.StatusInternalServerError, "failed to list notifications")
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	pageNum, err := parseIntParam(q.Get("page"), 1)
	if err != nil || pageNum <= 0 {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	pageSize, err := parseIntParam(q.Get("pageSize"), h.defaultPageSize)
	if err != nil || pageSize <= 0 {
		writeError(w, http.StatusBadRequest, "invalid pageSize")
		return
	}

	page, err := h.store.ListPage(r.Context(), userID, pageNum, pageSize)
	if err != nil {
		h.logStoreError(r, "Failed to list notifications", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// markRead marks a single notification as read for the receiver identified by
// the userId query parameter.
func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := h.store.MarkRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, notifications.ErrNotFound) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.logStoreError(r, "Failed to mark notification as read", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to mark notification as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// markAllRead marks every unread notification of the user as read.
func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	if err := h.store.MarkAllRead(r.Context(), userID); err != nil {
		h.logStoreError(r, "Failed to mark all notifications as read", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to mark all notifications as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sse opens a server-sent events stream carrying the user's pushed events.
func (h *Handler) sse(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}
	h.gateway.ServeSSE(w, r, userID)
}

// ws upgrades the request to a WebSocket carrying the user's pushed events.
func (h *Handler) ws(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}
	h.gateway.ServeWS(w, r, userID)
}

func (h *Handler) logStoreError(r *http.Request, msg, userID string, err error) {
	h.logger.LogAttrs(r.Context(), slog.LevelError, msg,
		slog.String("user_id", userID),
		slog.Any("error", err),
	)
}

func parseIntParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func parseInt64Param(raw string, fallback int64) (int64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
