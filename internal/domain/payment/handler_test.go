package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/alugacar/alugacar-web/internal/middleware"
	"github.com/alugacar/alugacar-web/internal/pkg/jwt"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
)

func newTestServer(t *testing.T, h *Handler) (*httptest.Server, string) {
	t.Helper()
	jwtService := jwt.NewService("test-secret", time.Hour)
	token, err := jwtService.GenerateAccessToken("renter-1", "Ana")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	auth := middleware.Auth(jwtService)
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Mount("/checkout", h.Routes(auth))
	r.Mount("/bookings", h.BookingRoutes(auth))

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, token
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, envelope
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	backend := &stubBackend{payErrs: []error{&marketplace.APIError{Op: "pay-booking", StatusCode: 400, Message: "Cartão recusado"}}}
	svc := NewService(&stubIntents{}, backend, nil, Config{})
	ts, token := newTestServer(t, NewHandler(svc, NewReconciler(&stubFetcher{statuses: []string{"paid"}}, 1, 0), nil))

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/checkout", token, `{"bookingId":"b2"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open: expected 201, got %d", resp.StatusCode)
	}
	var view View
	if err := json.Unmarshal(env["data"], &view); err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.State != StateExistingBooking || view.ID == "" {
		t.Fatalf("unexpected view %+v", view)
	}

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/checkout/"+view.ID+"/method", token, `{"method":"boleto"}`)
	if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unknown method: expected validation error, got %d", resp.StatusCode)
	}

	card := `{"cardDetails":{"number":"4111111111111111","holderName":"ANA","expiry":"12/30","cvv":"123"}}`
	resp, env = doJSON(t, http.MethodPost, ts.URL+"/checkout/"+view.ID+"/confirm", token, card)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("declined: expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(env["error"]), "Cartão recusado") {
		t.Fatalf("server message not passed through: %s", env["error"])
	}

	resp, env = doJSON(t, http.MethodPost, ts.URL+"/checkout/"+view.ID+"/confirm", token, card)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retry: expected 200, got %d", resp.StatusCode)
	}
	var out Outcome
	if err := json.Unmarshal(env["data"], &out); err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if out.State != StateSucceeded || out.NavigateTo != "/booking/b2/details" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	svc := NewService(&stubIntents{}, &stubBackend{}, nil, Config{})
	ts, _ := newTestServer(t, NewHandler(svc, NewReconciler(&stubFetcher{statuses: []string{"paid"}}, 1, 0), nil))

	resp, err := http.Post(ts.URL+"/checkout", "application/json", strings.NewReader(`{"bookingId":"b2"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPaymentStatusNotFound(t *testing.T) {
	svc := NewService(&stubIntents{}, &stubBackend{}, nil, Config{})
	fetcher := &stubFetcher{err: &marketplace.APIError{Op: "get-booking", StatusCode: http.StatusNotFound}}
	ts, token := newTestServer(t, NewHandler(svc, NewReconciler(fetcher, 1, 0), nil))

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/bookings/b1/payment-status", token, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(env["error"]), MessageReconcileFailed) {
		t.Fatalf("unexpected error body %s", env["error"])
	}
}

func TestPaymentStatusStream(t *testing.T) {
	svc := NewService(&stubIntents{}, &stubBackend{}, nil, Config{})
	fetcher := &stubFetcher{statuses: []string{"pending", "paid"}}
	ts, token := newTestServer(t, NewHandler(svc, NewReconciler(fetcher, 3, time.Millisecond), nil))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/bookings/b1/payment-status/ws?access_token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial failed: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first, second Reconciliation
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first: %v", err)
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if first.Status != ReconcileProcessing || first.Final {
		t.Fatalf("unexpected first event %+v", first)
	}
	if second.Status != ReconcileConfirmed || !second.Final || second.Attempt != 2 {
		t.Fatalf("unexpected second event %+v", second)
	}

	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close, got %v", err)
	}
}
