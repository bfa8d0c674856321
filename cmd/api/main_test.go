package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alugacar/alugacar-web/internal/config"
	"github.com/alugacar/alugacar-web/internal/domain/availability"
	"github.com/alugacar/alugacar-web/internal/domain/booking"
	"github.com/alugacar/alugacar-web/internal/domain/payment"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
)

func TestRouterMountsBookingRoutes(t *testing.T) {
	client := marketplace.NewClient("http://127.0.0.1:1", 0, "test")
	bookingService := booking.NewService(client, availability.NewService(client, nil, nil), booking.Config{})
	checkoutService := payment.NewService(bookingService, client, nil, payment.Config{})

	denyAll := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	r := newRouter(&config.Config{}, denyAll,
		booking.NewHandler(bookingService),
		payment.NewHandler(checkoutService, payment.NewReconciler(client, 1, 0), nil),
	)

	t.Run("health is public", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	})

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/vehicles/v1/blocked-dates"},
		{http.MethodPost, "/api/v1/vehicles/v1/quote"},
		{http.MethodPost, "/api/v1/vehicles/v1/intents"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/checkout/s1"},
		{http.MethodPut, "/api/v1/checkout/s1/method"},
		{http.MethodPost, "/api/v1/checkout/s1/confirm"},
		{http.MethodGet, "/api/v1/bookings/b1/payment-status"},
		{http.MethodGet, "/api/v1/bookings/b1/payment-status/ws"},
	}
	for _, tc := range protected {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rr.Code)
			}
		})
	}
}
