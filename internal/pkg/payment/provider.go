package payment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
)

// Method identifiers accepted by the marketplace.
const (
	MethodCreditCard = "credit_card"
	MethodPix        = "pix"
)

var (
	ErrCardDetailsRequired = errors.New("card details are required for credit card payments")
	ErrInvalidCardNumber   = errors.New("card number must have 13 to 19 digits")
)

// Method defines how a payment method builds its submission.
type Method interface {
	// BuildRequest returns the pay payload, validating method-specific input.
	BuildRequest(card *marketplace.CardDetails) (marketplace.PayBookingRequest, error)

	// Name returns the method identifier (e.g., "credit_card", "pix")
	Name() string
}

type creditCard struct{}

func (creditCard) Name() string { return MethodCreditCard }

func (creditCard) BuildRequest(card *marketplace.CardDetails) (marketplace.PayBookingRequest, error) {
	if card == nil {
		return marketplace.PayBookingRequest{}, ErrCardDetailsRequired
	}
	number := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, card.Number)
	if len(number) < 13 || len(number) > 19 || strings.Trim(number, "0123456789") != "" {
		return marketplace.PayBookingRequest{}, ErrInvalidCardNumber
	}
	if strings.TrimSpace(card.HolderName) == "" || strings.TrimSpace(card.Expiry) == "" || strings.TrimSpace(card.CVV) == "" {
		return marketplace.PayBookingRequest{}, ErrCardDetailsRequired
	}

	details := *card
	details.Number = number
	return marketplace.PayBookingRequest{Method: MethodCreditCard, CardDetails: &details}, nil
}

// pix is an instant transfer; the gateway supplies the QR code page.
type pix struct{}

func (pix) Name() string { return MethodPix }

func (pix) BuildRequest(*marketplace.CardDetails) (marketplace.PayBookingRequest, error) {
	return marketplace.PayBookingRequest{Method: MethodPix}, nil
}

// MethodRegistry holds the payment methods offered at checkout.
type MethodRegistry struct {
	methods map[string]Method
}

// NewMethodRegistry creates an empty registry.
func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{methods: make(map[string]Method)}
}

// DefaultMethods returns a registry with credit card and PIX.
func DefaultMethods() *MethodRegistry {
	r := NewMethodRegistry()
	r.Register(creditCard{})
	r.Register(pix{})
	return r
}

// Register adds a method to the registry
func (r *MethodRegistry) Register(m Method) {
	r.methods[m.Name()] = m
}

// Get retrieves a method by name
func (r *MethodRegistry) Get(name string) (Method, error) {
	m, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("payment method '%s' not supported", name)
	}
	return m, nil
}

// List returns registered method names in stable order.
func (r *MethodRegistry) List() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalized payment statuses.
const (
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusOther   = "other"
)

// NormalizeStatus maps a booking paymentStatus onto paid, pending or other.
// Only the exact values count; anything else stays opaque.
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case marketplace.PaymentStatusPaid:
		return StatusPaid
	case marketplace.PaymentStatusPending:
		return StatusPending
	default:
		return StatusOther
	}
}
