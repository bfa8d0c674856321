package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"

	"github.com/alugacar/alugacar-web/internal/pkg/logger"
	"github.com/alugacar/alugacar-web/internal/pkg/response"
)

// Recover turns a handler panic into a 500 carrying the request id.
// http.ErrAbortHandler is re-panicked for net/http to handle.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			logger.FromContext(r.Context()).Error().
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Str("method", r.Method).
				Str("route", route).
				Msg("Panic recovered")

			details := map[string]string{}
			if id := GetRequestID(r.Context()); id != "" {
				details["requestId"] = id
			}
			response.ErrorWithDetails(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", details)
		}()

		next.ServeHTTP(w, r)
	})
}
