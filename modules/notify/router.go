package notify

import (
	"github.com/go-chi/chi/v5"
)

// Router wires the notification handler into a chi router.
//
// Example:
//
//	h := notify.NewHandler(store, bus, gateway)
//	r := chi.NewRouter()
//	r.Mount("/notifications", notify.Router(h))
func Router(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/events", h.emit)
	r.Patch("/{id}/read", h.markRead)

	r.Route("/users/{userID}", func(u chi.Router) {
		u.Get("/notifications", h.list)
		u.Post("/notifications/read-all", h.markAllRead)
		u.Get("/stream", h.sse)
		u.Get("/ws", h.ws)
	})

	return r
}
