package payment

import (
	"context"
	"time"

	"github.com/alugacar/alugacar-web/internal/pkg/logger"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	paymethod "github.com/alugacar/alugacar-web/internal/pkg/payment"
)

// ReconcileStatus classifies a booking after the gateway returned the renter.
type ReconcileStatus string

const (
	ReconcileConfirmed  ReconcileStatus = "confirmed"
	ReconcileProcessing ReconcileStatus = "processing"
	ReconcileUnclear    ReconcileStatus = "unclear"
	ReconcileError      ReconcileStatus = "error"
)

const (
	MessageReconcileConfirmed  = "Pagamento confirmado! Sua reserva está garantida."
	MessageReconcileProcessing = "Pagamento em processamento. Você será avisado assim que for confirmado."
	MessageReconcileUnclear    = "Retorno do pagamento recebido. Confira os detalhes da reserva em instantes."
	MessageReconcileFailed     = "Não foi possível verificar o pagamento. Consulte os detalhes da reserva."
)

// BookingFetcher reads a booking.
type BookingFetcher interface {
	GetBooking(ctx context.Context, bookingID string) (*marketplace.Booking, error)
}

// Reconciliation is one classification of a booking's payment.
type Reconciliation struct {
	BookingID     string               `json:"bookingId"`
	Status        ReconcileStatus      `json:"status"`
	PaymentStatus string               `json:"paymentStatus,omitempty"`
	Message       string               `json:"message"`
	Attempt       int                  `json:"attempt"`
	Final         bool                 `json:"final"`
	NavigateTo    string               `json:"navigateTo"`
	Booking       *marketplace.Booking `json:"booking,omitempty"`

	// Err is the fetch failure behind an error status.
	Err error `json:"-"`
}

// Reconciler checks bookings after an external payment redirect. It only reads.
type Reconciler struct {
	bookings    BookingFetcher
	maxAttempts int
	backoff     time.Duration
}

// NewReconciler creates a reconciler. maxAttempts of 1 is a single check.
func NewReconciler(bookings BookingFetcher, maxAttempts int, backoff time.Duration) *Reconciler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if backoff < 0 {
		backoff = 0
	}
	return &Reconciler{bookings: bookings, maxAttempts: maxAttempts, backoff: backoff}
}

// Check returns the last classification. Pending payments are re-read up to
// the configured number of attempts.
func (r *Reconciler) Check(ctx context.Context, bookingID string) Reconciliation {
	var last Reconciliation
	_ = r.Watch(ctx, bookingID, func(rec Reconciliation) error {
		last = rec
		return nil
	})
	return last
}

// Watch emits every attempt. It stops at the first non-pending result, after
// the last attempt, when ctx is done, or when emit fails.
func (r *Reconciler) Watch(ctx context.Context, bookingID string, emit func(Reconciliation) error) error {
	for attempt := 1; ; attempt++ {
		rec := r.classify(ctx, bookingID)
		rec.Attempt = attempt
		rec.Final = rec.Status != ReconcileProcessing || attempt >= r.maxAttempts
		if err := emit(rec); err != nil {
			return err
		}
		if rec.Final {
			return nil
		}

		timer := time.NewTimer(r.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Reconciler) classify(ctx context.Context, bookingID string) Reconciliation {
	rec := Reconciliation{BookingID: bookingID, NavigateTo: DetailsPath(bookingID)}

	b, err := r.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		logger.LogError(ctx, err, "payment reconciliation fetch failed", "booking_id", bookingID)
		rec.Status = ReconcileError
		rec.Message = MessageReconcileFailed
		rec.Err = err
		return rec
	}

	rec.Booking = b
	rec.PaymentStatus = b.PaymentStatus
	switch paymethod.NormalizeStatus(b.PaymentStatus) {
	case paymethod.StatusPaid:
		rec.Status = ReconcileConfirmed
		rec.Message = MessageReconcileConfirmed
	case paymethod.StatusPending:
		rec.Status = ReconcileProcessing
		rec.Message = MessageReconcileProcessing
	default:
		rec.Status = ReconcileUnclear
		rec.Message = MessageReconcileUnclear
	}
	return rec
}
