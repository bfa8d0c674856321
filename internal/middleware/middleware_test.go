package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRequestIDReusesWellFormedHeader(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "web-4f2a.1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got != "web-4f2a.1" || w.Header().Get(RequestIDHeader) != "web-4f2a.1" {
		t.Fatalf("expected client id to be kept, got ctx=%q header=%q", got, w.Header().Get(RequestIDHeader))
	}
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	for _, bad := range []string{"", "has space", "line\r\nbreak", strings.Repeat("a", 65)} {
		var got string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, bad)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if got == "" || got == bad {
			t.Fatalf("expected generated id for %q, got %q", bad, got)
		}
		if w.Header().Get(RequestIDHeader) != got {
			t.Fatalf("response header %q does not match context id %q", w.Header().Get(RequestIDHeader), got)
		}
	}
}

func TestRecoverAnswersWithRequestID(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RequestID, Recover)
	r.Get("/checkout/{id}", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/checkout/s-1", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error.Code != "INTERNAL_ERROR" || body.Error.Details["requestId"] != "req-42" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRecoverRepanicsAbortHandler(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestCORSCredentialsOnlyForExplicitOrigins(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	CORSHandler([]string{"http://app.test"})(ok).ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "http://app.test" || w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("unexpected headers for explicit origin: %v", w.Header())
	}

	w = httptest.NewRecorder()
	CORSHandler([]string{"*"})(ok).ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard origin, got %v", w.Header())
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatal("wildcard must not allow credentials")
	}
}
