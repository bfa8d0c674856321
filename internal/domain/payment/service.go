package payment

import (
	"context"
	"strings"
	"time"

	"github.com/alugacar/alugacar-web/internal/domain/booking"
	"github.com/alugacar/alugacar-web/internal/pkg/logger"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	paymethod "github.com/alugacar/alugacar-web/internal/pkg/payment"
)

// IntentSource hands over parked booking intents.
type IntentSource interface {
	TakeIntent(intentID string) (*booking.Intent, bool)
}

// Config holds checkout settings.
type Config struct {
	SessionTTL           time.Duration
	SuccessRedirectDelay time.Duration
}

// Service opens and drives checkout sessions.
type Service struct {
	intents  IntentSource
	backend  Backend
	methods  *paymethod.MethodRegistry
	sessions *Sessions
	cfg      Config
}

// NewService creates the checkout service.
func NewService(intents IntentSource, backend Backend, methods *paymethod.MethodRegistry, cfg Config) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.SuccessRedirectDelay <= 0 {
		cfg.SuccessRedirectDelay = 2 * time.Second
	}
	if methods == nil {
		methods = paymethod.DefaultMethods()
	}
	return &Service{
		intents:  intents,
		backend:  backend,
		methods:  methods,
		sessions: NewSessions(cfg.SessionTTL),
		cfg:      cfg,
	}
}

// Open starts a checkout for userID from a parked intent or a booking id.
func (s *Service) Open(ctx context.Context, userID string, req OpenRequest) View {
	var intent *booking.Intent
	if id := strings.TrimSpace(req.IntentID); id != "" {
		taken, ok := s.intents.TakeIntent(id)
		switch {
		case !ok:
			logger.LogWarn(ctx, "booking intent missing or expired", "intent_id", id)
		case taken.LesseeID != userID:
			logger.LogWarn(ctx, "booking intent belongs to another user", "intent_id", id)
		default:
			intent = taken
		}
	}
	if intent != nil && strings.TrimSpace(req.BookingID) != "" {
		logger.LogDebug(ctx, "both intent and booking id given, using intent", "booking_id", req.BookingID)
	}

	h := NewHandoff(intent, req.BookingID, s.methods, s.cfg.SuccessRedirectDelay)
	sess := s.sessions.Open(userID, h)

	logger.LogInfo(ctx, "checkout opened", "session_id", sess.ID, "state", string(h.State()))
	return sess.View()
}

// Get returns the view of a session owned by userID.
func (s *Service) Get(userID, sessionID string) (View, error) {
	sess, err := s.sessions.Get(userID, sessionID)
	if err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// SelectMethod changes the payment method of a session.
func (s *Service) SelectMethod(userID, sessionID, method string) (View, error) {
	sess, err := s.sessions.Get(userID, sessionID)
	if err != nil {
		return View{}, err
	}
	if err := sess.Handoff.SelectMethod(method); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// Confirm submits the payment of a session. Once submitted, creation and
// payment run to completion even if the caller goes away.
func (s *Service) Confirm(ctx context.Context, userID, sessionID string, card *marketplace.CardDetails) (Outcome, error) {
	sess, err := s.sessions.Get(userID, sessionID)
	if err != nil {
		return Outcome{}, err
	}

	out, err := sess.Handoff.Confirm(context.WithoutCancel(ctx), s.backend, card)
	if err != nil {
		return Outcome{}, err
	}

	if out.State == StateFailed {
		logger.FromContext(ctx).Warn().
			Err(out.Err).
			Str("session_id", sessionID).
			Str("booking_id", out.BookingID).
			Msg("payment attempt failed")
	} else {
		logger.LogInfo(ctx, "payment submitted",
			"session_id", sessionID,
			"booking_id", out.BookingID,
			"redirect", out.RedirectURL != "",
		)
	}
	return out, nil
}

// Run expires idle sessions until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.sessions.Run(ctx, interval)
}
