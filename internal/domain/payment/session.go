package payment

import (
	"context"
	"time"

	"github.com/alugacar/alugacar-web/internal/pkg/memstore"
)

// Session is one open payment page.
type Session struct {
	ID      string
	UserID  string
	Handoff *Handoff
}

// View returns the page view of the session.
func (s *Session) View() View {
	v := s.Handoff.Snapshot()
	v.ID = s.ID
	return v
}

// Sessions keeps checkout sessions in process memory.
type Sessions struct {
	store *memstore.Store[*Session]
}

// NewSessions creates a session store whose sessions idle out after ttl.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{store: memstore.New[*Session]("checkout-sessions", ttl)}
}

// Open registers a session for userID and assigns its id.
func (s *Sessions) Open(userID string, h *Handoff) *Session {
	sess := &Session{UserID: userID, Handoff: h}
	sess.ID = s.store.Put(sess)
	return sess
}

// Get returns the session if it exists and belongs to userID.
// A touch extends its lifetime.
func (s *Sessions) Get(userID, id string) (*Session, error) {
	sess, ok := s.store.Get(id)
	if !ok || sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	s.store.Set(id, sess)
	return sess, nil
}

// Run expires idle sessions until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	s.store.Run(ctx, interval)
}
