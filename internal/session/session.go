// Package session owns the daemon's authentication state.
//
// The backend completes its OAuth dance out-of-band: Login only opens
// the login URL in a browser tab and returns, and the daemon discovers
// success on a later status check. Status is deliberately fail-closed:
// any failure reads as unauthenticated, because everything downstream
// depends on a definite boolean.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cristianoliveira/jira-intray/internal/browser"
	"github.com/cristianoliveira/jira-intray/internal/client"
	"github.com/cristianoliveira/jira-intray/internal/logging"
	"github.com/cristianoliveira/jira-intray/internal/storage"
)

// State is the authentication state of the session.
type State int

const (
	// StateUnknown means no status check has completed yet.
	StateUnknown State = iota
	// StateChecking means a status check is in flight.
	StateChecking
	// StateAuthenticated means the backend confirmed a live session.
	StateAuthenticated
	// StateUnauthenticated means the backend denied, or the check failed.
	StateUnauthenticated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// User identifies the authenticated backend user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StatusPayload is the result of a status check.
type StatusPayload struct {
	Authenticated bool   `json:"authenticated"`
	User          *User  `json:"user,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Backend is the remote client surface the manager needs.
type Backend interface {
	Call(ctx context.Context, method, endpoint string, body, result interface{}) error
	BaseURL() string
}

// KV is the durable key-value subset used for the authenticated mirror
// and the OAuth state token.
type KV interface {
	GetValue(key string) (string, error)
	SetValue(key, value string) error
	DeleteValue(key string) error
}

// Manager owns authentication state and the refresh-and-retry policy.
type Manager struct {
	backend Backend
	kv      KV
	opener  browser.Opener
	logger  logging.Logger

	mu    sync.Mutex
	state State
	user  *User
}

// NewManager creates a session manager in StateUnknown.
func NewManager(backend Backend, kv KV, opener browser.Opener, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{
		backend: backend,
		kv:      kv,
		opener:  opener,
		logger:  logger,
		state:   StateUnknown,
	}
}

// BaseURL returns the backend base URL the next call will target.
func (m *Manager) BaseURL() string {
	return m.backend.BaseURL()
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Authenticated reports whether the last status check confirmed a
// live session.
func (m *Manager) Authenticated() bool {
	return m.State() == StateAuthenticated
}

// CurrentUser returns the cached user, present only while
// authenticated.
func (m *Manager) CurrentUser() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Login generates an opaque anti-CSRF state token, persists it, and
// opens the backend's login URL in a browser tab. It returns
// immediately; completion is observed via a later Status call.
func (m *Manager) Login(ctx context.Context) error {
	token := uuid.NewString()
	if err := m.kv.SetValue(storage.KeyOAuthState, token); err != nil {
		return fmt.Errorf("session: persist oauth state: %w", err)
	}
	url := m.backend.BaseURL() + "/api/auth/login?state=" + token
	if err := m.opener.Open(ctx, url); err != nil {
		return fmt.Errorf("session: open login page: %w", err)
	}
	m.logger.Info("login started", "url", m.backend.BaseURL()+"/api/auth/login")
	return nil
}

// Logout calls the logout endpoint and clears local state.
//
// Policy decision: logout is fail-closed. Local state is cleared to
// unauthenticated no matter what the remote call did, so the UI can
// never be stuck showing "logged in"; the remote error is still
// returned for the caller to surface.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.backend.Call(ctx, "GET", "/api/auth/logout", nil, nil)

	m.setState(StateUnauthenticated, nil)
	m.mirrorAuthenticated(false)
	if kvErr := m.kv.DeleteValue(storage.KeyOAuthState); kvErr != nil {
		m.logger.Warn("clearing oauth state failed", "error", kvErr)
	}

	if err != nil {
		m.logger.Warn("remote logout failed, local state cleared anyway", "error", err)
		return fmt.Errorf("session: logout: %w", err)
	}
	m.logger.Info("logged out")
	return nil
}

// Status checks the backend's auth status. On success the result is
// cached and the authenticated flag mirrored into durable storage. On
// any failure the user is treated as unauthenticated and the error is
// folded into the payload rather than returned.
func (m *Manager) Status(ctx context.Context) StatusPayload {
	m.setState(StateChecking, nil)

	var payload StatusPayload
	err := m.backend.Call(ctx, "GET", "/api/auth/status", nil, &payload)
	if err != nil {
		m.setState(StateUnauthenticated, nil)
		m.mirrorAuthenticated(false)
		m.logger.Warn("status check failed", "error", err)
		return StatusPayload{Authenticated: false, Error: err.Error()}
	}

	if payload.Authenticated {
		m.setState(StateAuthenticated, payload.User)
	} else {
		m.setState(StateUnauthenticated, nil)
		payload.User = nil
	}
	m.mirrorAuthenticated(payload.Authenticated)
	return payload
}

// Refresh asks the backend to refresh the session token. It never
// returns an error; failure is reported as false.
func (m *Manager) Refresh(ctx context.Context) bool {
	var out struct {
		Success *bool `json:"success"`
	}
	if err := m.backend.Call(ctx, "POST", "/api/auth/refresh-token", nil, &out); err != nil {
		m.logger.Debug("token refresh failed", "error", err)
		return false
	}
	if out.Success != nil && !*out.Success {
		return false
	}
	return true
}

// Call issues a backend call with the retry-on-401 rule: on an expired
// session it refreshes once and retries the original call once with
// identical arguments. Any other failure, a failed refresh, or a failed
// retry propagates unchanged. Concurrent callers refresh independently;
// the backend treats repeated refreshes as idempotent.
func (m *Manager) Call(ctx context.Context, method, endpoint string, body, result interface{}) error {
	err := m.backend.Call(ctx, method, endpoint, body, result)
	if err == nil || !client.IsAuthExpired(err) {
		return err
	}

	m.logger.Debug("session expired, attempting refresh", "endpoint", endpoint)
	if !m.Refresh(ctx) {
		return err
	}
	return m.backend.Call(ctx, method, endpoint, body, result)
}

// setState updates the cached state, keeping the invariant that a user
// is cached only while authenticated.
func (m *Manager) setState(state State, user *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	if state == StateAuthenticated {
		m.user = user
	} else {
		m.user = nil
	}
}

// mirrorAuthenticated writes the denormalized authenticated flag into
// durable storage for UI reads.
func (m *Manager) mirrorAuthenticated(authenticated bool) {
	value := "false"
	if authenticated {
		value = "true"
	}
	if err := m.kv.SetValue(storage.KeyIsAuthenticated, value); err != nil {
		m.logger.Warn("mirroring authenticated flag failed", "error", err)
	}
}
