package payment

import (
	"errors"

	"github.com/alugacar/alugacar-web/internal/domain/booking"
	"github.com/alugacar/alugacar-web/internal/domain/pricing"
)

// State is the checkout handoff state.
type State string

const (
	StateNewIntent       State = "NEW_INTENT"
	StateExistingBooking State = "EXISTING_BOOKING"
	StatePaying          State = "PAYING"
	StateSucceeded       State = "SUCCEEDED"
	StateFailed          State = "FAILED"
)

// User-facing messages.
const (
	MessageNoBookingData    = "Nenhum dado de reserva encontrado."
	MessageGenericFailure   = "Erro ao processar pagamento. Tente novamente."
	MessagePaymentSucceeded = "Pagamento realizado com sucesso!"
)

var (
	ErrSessionNotFound       = errors.New("checkout session not found")
	ErrNoBookingData         = errors.New("checkout has no booking data")
	ErrPaymentInProgress     = errors.New("payment already in progress")
	ErrAlreadyPaid           = errors.New("booking already paid")
	ErrMethodFrozen          = errors.New("payment method cannot change after submission")
	ErrUnknownMethod         = errors.New("unknown payment method")
	ErrInvalidPaymentDetails = errors.New("invalid payment details")
)

// Outcome is the result of one confirm attempt. A FAILED outcome leaves the
// session in its previous state so the renter can retry.
type Outcome struct {
	State           State  `json:"state"`
	BookingID       string `json:"bookingId,omitempty"`
	Message         string `json:"message,omitempty"`
	RedirectURL     string `json:"redirectUrl,omitempty"`
	NavigateTo      string `json:"navigateTo,omitempty"`
	NavigateAfterMs int64  `json:"navigateAfterMs,omitempty"`

	// Err is the backend failure behind a FAILED outcome.
	Err error `json:"-"`
}

// View is what the payment page renders.
type View struct {
	ID              string             `json:"id"`
	State           State              `json:"state"`
	Method          string             `json:"method"`
	Methods         []string           `json:"methods"`
	BookingID       string             `json:"bookingId,omitempty"`
	Intent          *booking.Intent    `json:"intent,omitempty"`
	Breakdown       *pricing.Breakdown `json:"breakdown,omitempty"`
	Message         string             `json:"message,omitempty"`
	RedirectURL     string             `json:"redirectUrl,omitempty"`
	NavigateTo      string             `json:"navigateTo,omitempty"`
	NavigateAfterMs int64              `json:"navigateAfterMs,omitempty"`
}
