package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the vehicle booking form router.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Get("/{id}/blocked-dates", h.BlockedDates)
	r.Post("/{id}/quote", h.Quote)
	r.Post("/{id}/intents", h.PrepareIntent)

	return r
}
