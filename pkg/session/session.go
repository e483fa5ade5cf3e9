// Package session holds the signed-in user's bearer token and identity.
//
// A Session replaces ambient token state: it is created once per process,
// handed to the HTTP client, and moves through LoggedOut -> Active ->
// Expired -> LoggedOut. The backend answering 401 expires it.
package session

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

// State is the lifecycle position of a session
type State int

const (
	StateLoggedOut State = iota
	StateActive
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return "logged_out"
	}
}

var (
	// ErrExpired is returned once the backend has rejected the token.
	ErrExpired = errors.New("session expired")
	// ErrNotLoggedIn is returned when no token is available.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrMissingToken is returned by ParseCallback when the redirect carries no token.
	ErrMissingToken = errors.New("callback URL has no continue token")
)

// record is the on-disk form
type record struct {
	Token      string    `json:"token"`
	UserID     string    `json:"user_id,omitempty"`
	Activated  bool      `json:"activated"`
	State      string    `json:"state"`
	LoggedInAt time.Time `json:"logged_in_at"`
	ExpiredAt  time.Time `json:"expired_at,omitempty"`
}

// Session is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	path  string
	rec   record
	state State
}

// New returns a logged-out session persisted at path. An empty path keeps
// the session in memory only.
func New(path string) *Session {
	return &Session{path: path}
}

// Load reads a session from disk. A missing file yields a logged-out session.
func Load(path string) (*Session, error) {
	s := New(path)
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &s.rec); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}

	switch {
	case s.rec.State == StateExpired.String():
		s.state = StateExpired
	case s.rec.Token != "":
		s.state = StateActive
	}
	return s, nil
}

// Login activates the session with a bearer token from the OAuth redirect.
func (s *Session) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = record{Token: token, LoggedInAt: time.Now()}
	s.state = StateActive
	return s.saveLocked()
}

// Identify records the user the token belongs to.
func (s *Session) Identify(userID string, activated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotLoggedIn
	}
	s.rec.UserID = userID
	s.rec.Activated = activated
	return s.saveLocked()
}

// Expire drops the token after the backend rejected it. It reports whether
// the session was active before the call.
func (s *Session) Expire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return false
	}
	s.state = StateExpired
	s.rec.Token = ""
	s.rec.ExpiredAt = time.Now()
	if err := s.saveLocked(); err != nil {
		logger.Warn("Failed to persist expired session", "path", s.path, "error", err)
	}
	return true
}

// Logout clears the session and removes its file.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = record{}
	s.state = StateLoggedOut
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the bearer token, empty unless the session is active.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateActive {
		return ""
	}
	return s.rec.Token
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsActive reports whether requests can be authenticated.
func (s *Session) IsActive() bool {
	return s.State() == StateActive
}

// UserID returns the identified user, if any.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.UserID
}

// Activated reports whether the account finished profile activation.
func (s *Session) Activated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Activated
}

// LoggedInAt returns when the token was stored.
func (s *Session) LoggedInAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.LoggedInAt
}

// Err returns nil for an active session, otherwise the reason it cannot be used.
func (s *Session) Err() error {
	switch s.State() {
	case StateActive:
		return nil
	case StateExpired:
		return ErrExpired
	default:
		return ErrNotLoggedIn
	}
}

func (s *Session) saveLocked() error {
	if s.path == "" {
		return nil
	}
	s.rec.State = s.state.String()

	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return err
	}

	// owner read/write only
	return os.WriteFile(s.path, data, 0600)
}

// ParseCallback extracts the token from the OAuth redirect URL
// (/auth/callback?continue=<token>).
func ParseCallback(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse callback URL: %w", err)
	}
	token := u.Query().Get("continue")
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// SignInURL is where a browser starts the Google OAuth flow.
func SignInURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/signin"
}
