package app

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSessionTTL = 24 * time.Hour

type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
}

// Session is what watchers see: either an authenticated user or nothing.
type Session struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	User            *User     `json:"user"`
	ExpiresAt       time.Time `json:"expiresAt,omitzero"`
}

type sessionInfo struct {
	token     string
	user      User
	expiresAt time.Time
}

// SessionStore holds the single signed-in session of this process. Signing
// in again replaces the previous session.
type SessionStore struct {
	mu      sync.RWMutex
	current *sessionInfo
	ttl     time.Duration
	now     func() time.Time
	bus     *Bus[Session]
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{
		ttl: ttl,
		now: time.Now,
		bus: NewBus[Session](),
	}
}

// SignIn generates a crypto/rand token (32 bytes, hex encoded), stores the
// session and notifies watchers.
func (s *SessionStore) SignIn(user User) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	info := &sessionInfo{
		token:     token,
		user:      user,
		expiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.current = info
	s.mu.Unlock()

	s.bus.Publish(info.session())
	return token, nil
}

// SignOut ends the current session, if any.
func (s *SessionStore) SignOut() {
	s.mu.Lock()
	had := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if had {
		s.bus.Publish(Session{})
	}
}

// Validate returns the user owning token, or nil if the token is unknown or
// expired. An expired session is ended on access.
func (s *SessionStore) Validate(token string) *User {
	if token == "" {
		return nil
	}
	info := s.active()
	if info == nil || info.token != token {
		return nil
	}
	user := info.user
	return &user
}

// Current returns the session watchers would see right now.
func (s *SessionStore) Current() Session {
	info := s.active()
	if info == nil {
		return Session{}
	}
	return info.session()
}

// Watch returns a channel of session changes and an unsubscribe function.
func (s *SessionStore) Watch() (<-chan Session, func()) {
	return s.bus.Subscribe()
}

func (s *SessionStore) active() *sessionInfo {
	s.mu.RLock()
	info := s.current
	s.mu.RUnlock()

	if info == nil {
		return nil
	}
	if s.now().After(info.expiresAt) {
		s.mu.Lock()
		expired := s.current == info
		if expired {
			s.current = nil
		}
		s.mu.Unlock()
		if expired {
			s.bus.Publish(Session{})
		}
		return nil
	}
	return info
}

func (i *sessionInfo) session() Session {
	user := i.user
	return Session{IsAuthenticated: true, User: &user, ExpiresAt: i.expiresAt}
}
