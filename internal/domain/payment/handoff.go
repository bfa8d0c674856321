package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/alugacar/alugacar-web/internal/domain/booking"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	paymethod "github.com/alugacar/alugacar-web/internal/pkg/payment"
)

// Backend is the pair of calls a confirm makes.
type Backend interface {
	CreateBooking(ctx context.Context, req marketplace.CreateBookingRequest) (*marketplace.CreatedBooking, error)
	PayBooking(ctx context.Context, bookingID string, req marketplace.PayBookingRequest) (*marketplace.PaymentResult, error)
}

// Handoff is the payment page state machine for one checkout.
type Handoff struct {
	mu           sync.Mutex
	methods      *paymethod.MethodRegistry
	successDelay time.Duration

	state  State
	resume State // state to return to when an attempt fails

	intent      *booking.Intent
	bookingID   string
	method      string
	message     string
	redirectURL string
	navigateTo  string
}

// NewHandoff resolves the entry state. An intent wins over a booking id;
// with neither the handoff is FAILED for good.
func NewHandoff(intent *booking.Intent, bookingID string, methods *paymethod.MethodRegistry, successDelay time.Duration) *Handoff {
	h := &Handoff{
		methods:      methods,
		successDelay: successDelay,
		method:       paymethod.MethodCreditCard,
	}
	bookingID = strings.TrimSpace(bookingID)
	switch {
	case intent != nil:
		h.state = StateNewIntent
		h.intent = intent
	case bookingID != "":
		h.state = StateExistingBooking
		h.bookingID = bookingID
	default:
		h.state = StateFailed
		h.message = MessageNoBookingData
	}
	h.resume = h.state
	return h
}

// State returns the current state.
func (h *Handoff) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// SelectMethod changes the payment method. It is frozen once payment is submitted.
func (h *Handoff) SelectMethod(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == StatePaying || h.state == StateSucceeded {
		return ErrMethodFrozen
	}
	if h.resume == StateFailed {
		return ErrNoBookingData
	}
	if _, err := h.methods.Get(name); err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownMethod, err)
	}
	h.method = name
	return nil
}

// Confirm submits the payment. A new intent is created as a booking first;
// if creation fails no payment is attempted. Attempt failures are reported
// in the outcome; the returned error is only for confirms that cannot start.
func (h *Handoff) Confirm(ctx context.Context, backend Backend, card *marketplace.CardDetails) (Outcome, error) {
	h.mu.Lock()
	switch {
	case h.state == StatePaying:
		h.mu.Unlock()
		return Outcome{}, ErrPaymentInProgress
	case h.state == StateSucceeded:
		h.mu.Unlock()
		return Outcome{}, ErrAlreadyPaid
	case h.resume == StateFailed:
		h.mu.Unlock()
		return Outcome{}, ErrNoBookingData
	}

	method, err := h.methods.Get(h.method)
	if err != nil {
		h.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: %w", ErrUnknownMethod, err)
	}
	req, err := method.BuildRequest(card)
	if err != nil {
		h.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidPaymentDetails, err)
	}

	h.state = StatePaying
	h.message = ""
	intent, bookingID := h.intent, h.bookingID
	h.mu.Unlock()

	if intent != nil {
		created, err := backend.CreateBooking(ctx, intent.Request())
		if err != nil {
			return h.fail(err), nil
		}
		bookingID = created.ID

		// The intent is spent; retries pay the created booking.
		h.mu.Lock()
		h.intent = nil
		h.bookingID = bookingID
		h.resume = StateExistingBooking
		h.mu.Unlock()
	}

	result, err := backend.PayBooking(ctx, bookingID, req)
	if err != nil {
		return h.fail(err), nil
	}
	return h.succeed(bookingID, result), nil
}

func (h *Handoff) fail(err error) Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = h.resume
	h.message = FailureMessage(err)
	return Outcome{
		State:     StateFailed,
		BookingID: h.bookingID,
		Message:   h.message,
		Err:       err,
	}
}

func (h *Handoff) succeed(bookingID string, result *marketplace.PaymentResult) Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = StateSucceeded
	h.resume = StateSucceeded
	out := Outcome{State: StateSucceeded, BookingID: bookingID}

	if result != nil && result.PaymentURL != "" {
		h.redirectURL = result.PaymentURL
		out.RedirectURL = result.PaymentURL
		return out
	}

	h.message = MessagePaymentSucceeded
	if result != nil && strings.TrimSpace(result.Message) != "" {
		h.message = result.Message
	}
	h.navigateTo = DetailsPath(bookingID)
	out.Message = h.message
	out.NavigateTo = h.navigateTo
	out.NavigateAfterMs = h.successDelay.Milliseconds()
	return out
}

// Snapshot returns the page view without the session id.
func (h *Handoff) Snapshot() View {
	h.mu.Lock()
	defer h.mu.Unlock()

	v := View{
		State:       h.state,
		Method:      h.method,
		Methods:     h.methods.List(),
		BookingID:   h.bookingID,
		Intent:      h.intent,
		Message:     h.message,
		RedirectURL: h.redirectURL,
		NavigateTo:  h.navigateTo,
	}
	if h.intent != nil {
		b := h.intent.Breakdown
		v.Breakdown = &b
	}
	if h.navigateTo != "" {
		v.NavigateAfterMs = h.successDelay.Milliseconds()
	}
	return v
}

// FailureMessage is the server message when it sent one, else the generic fallback.
func FailureMessage(err error) string {
	if msg := marketplace.ServerMessage(err); msg != "" {
		return msg
	}
	return MessageGenericFailure
}

// DetailsPath is the booking details page of bookingID.
func DetailsPath(bookingID string) string {
	return "/booking/" + url.PathEscape(bookingID) + "/details"
}
