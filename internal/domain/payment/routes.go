package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the checkout router.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Open)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/method", h.SelectMethod)
	r.Post("/{id}/confirm", h.Confirm)

	return r
}

// BookingRoutes returns the post-payment router.
func (h *Handler) BookingRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/{id}/payment-status", h.PaymentStatus)
	r.Get("/{id}/payment-status/ws", h.PaymentStatusStream)

	return r
}
