package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

var (
	ErrTimeout = errors.New("marketplace timeout")
	ErrNetwork = errors.New("marketplace network error")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Op         string
	StatusCode int
	Code       string
	// Message is the server's own message, empty when the payload had none.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("marketplace %s http error: status=%d message=%s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("marketplace %s http error: status=%d body=%s", e.Op, e.StatusCode, truncate(e.Body, 512))
}

func newAPIError(op string, status int, raw []byte) *APIError {
	apiErr := &APIError{Op: op, StatusCode: status, Body: string(raw)}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return apiErr
	}

	apiErr.Message = stringField(payload, "message")
	apiErr.Code = stringField(payload, "code")

	if rawErr, ok := payload["error"]; ok {
		var s string
		if json.Unmarshal(rawErr, &s) == nil {
			if apiErr.Message == "" {
				apiErr.Message = s
			}
		} else {
			var nested map[string]json.RawMessage
			if json.Unmarshal(rawErr, &nested) == nil {
				if apiErr.Message == "" {
					apiErr.Message = stringField(nested, "message")
				}
				if apiErr.Code == "" {
					apiErr.Code = stringField(nested, "code")
				}
			}
		}
	}
	return apiErr
}

func stringField(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// ServerMessage returns the backend's own message carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsNotFound reports a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsNotImplemented reports an endpoint the backend does not serve.
func IsNotImplemented(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}

func classifyRequestError(ctx context.Context, op string, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("marketplace %s timeout: %w", op, errors.Join(ErrTimeout, err))
	}
	if isNetworkError(err) {
		return fmt.Errorf("marketplace %s network error: %w", op, errors.Join(ErrNetwork, err))
	}
	return fmt.Errorf("marketplace %s request error: %w", op, err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
