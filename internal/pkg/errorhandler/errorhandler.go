package errorhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/alugacar/alugacar-web/internal/pkg/logger"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	"github.com/alugacar/alugacar-web/internal/pkg/response"
)

// HandleError logs err with request context and sends the error envelope.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error().
		Str("error_code", code).
		Str("error_message", message).
		Int("status_code", status)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("Request error")

	response.Error(w, status, code, message)
}

// HandleUpstreamError answers a failed marketplace call. The backend's own
// message is passed through when it sent one, otherwise fallback is used.
func HandleUpstreamError(ctx context.Context, w http.ResponseWriter, fallback string, err error) {
	status := http.StatusBadGateway
	code := "UPSTREAM_ERROR"

	var apiErr *marketplace.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		status, code = apiErr.StatusCode, "UPSTREAM_REJECTED"
	case errors.Is(err, marketplace.ErrTimeout):
		status, code = http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"
	}

	message := marketplace.ServerMessage(err)
	if message == "" {
		message = fallback
	}

	logger.FromContext(ctx).Warn().
		Err(err).
		Int("status_code", status).
		Str("error_code", code).
		Msg("Marketplace call failed")

	response.Error(w, status, code, message)
}
