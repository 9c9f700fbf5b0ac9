package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-needle-survey/pkg/wizard"
)

// ControllerFactory builds the wizard behind a new session.
type ControllerFactory func() *wizard.Controller

// Session is one participant's wizard.
type Session struct {
	ID         string
	Controller *wizard.Controller

	lastSeen time.Time
}

// SessionStore keeps wizard sessions in memory. Sessions idle for longer
// than the TTL are dropped on access and by Sweep.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	factory ControllerFactory
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithStoreClock overrides the clock used for expiry.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreLogger sets the store logger.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSessionStore returns an empty store. A nil factory builds controllers
// with the default submission client.
func NewSessionStore(factory ControllerFactory, ttl time.Duration, options ...StoreOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*Session),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.factory == nil {
		s.factory = func() *wizard.Controller { return wizard.New(nil) }
	}
	return s
}

// Create starts a new session on the first page.
func (s *SessionStore) Create() *Session {
	session := &Session{
		ID:         uuid.NewString(),
		Controller: s.factory(),
	}

	s.mu.Lock()
	session.lastSeen = s.now()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session_id", session.ID))
	return session
}

// Get returns the session for id and marks it as seen.
func (s *SessionStore) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(session, now) {
		delete(s.sessions, id)
		s.logger.Debug("session expired", zap.String("session_id", id))
		return nil, false
	}
	session.lastSeen = now
	return session, true
}

// Delete discards a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions, expired ones included until swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if s.expired(session, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("sessions swept", zap.Int("removed", removed), zap.Int("remaining", len(s.sessions)))
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SessionStore) expired(session *Session, now time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	// A session with a submission in flight is never dropped.
	if session.Controller.State().Submitting {
		return false
	}
	return now.Sub(session.lastSeen) > s.ttl
}
