// Package session holds the authenticated user's tokens for the lifetime of
// a login. It replaces ambient key-value token storage with an explicit
// object whose lifecycle is: Start on login, Clear on logout or when a token
// refresh fails.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no active session")

// Session is safe for concurrent use: the request transport reads tokens
// while the CLI may be tearing the session down.
type Session struct {
	mu           sync.RWMutex
	email        string
	accessToken  string
	refreshToken string
}

func New() *Session {
	return &Session{}
}

// Start installs a fresh pair of tokens for the given user, replacing any
// previous session.
func (s *Session) Start(email, accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

// Clear tears the session down.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = ""
	s.accessToken = ""
	s.refreshToken = ""
}

// Active reports whether a bearer token is present.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// SetAccessToken swaps in a refreshed bearer token, keeping the refresh
// token and user untouched.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// Remaining reports how long the bearer token is still valid, by decoding
// its exp claim without verifying the signature (the services verify; the
// client only displays). A token without exp yields zero and no error.
func (s *Session) Remaining(now time.Time) (time.Duration, error) {
	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()

	if token == "" {
		return 0, ErrNoSession
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, err
	}
	return exp.Time.Sub(now), nil
}
