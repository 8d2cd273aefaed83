// Package session owns the client-side authentication state: the current
// user, the loading flag, the last error message, and the durable token.
// All mutation goes through Restore, Login, SignUp and Logout.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ademidov/authgate/internal/client/api"
	"github.com/ademidov/authgate/internal/client/repositories/metadata"
)

// State is the session lifecycle state.
//
//	Unknown -> Authenticating -> {Authenticated, Anonymous}
type State string

const (
	StateUnknown        State = "unknown"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateAnonymous      State = "anonymous"
)

// tokenKey is the metadata key under which the bearer token is persisted.
const tokenKey = "token"

// Result reports the outcome of a Login or SignUp call. Callers branch on
// OK rather than on error control flow; Err holds the display message on
// failure.
type Result struct {
	OK  bool
	Err string
}

// Session is the client session context. Operations are not designed for
// concurrent overlapping calls; a later operation simply overwrites the
// state left by an earlier one (last write wins).
type Session struct {
	api   api.Client
	store metadata.Repository

	mu      sync.Mutex
	state   State
	user    *api.User
	loading bool
	lastErr string
}

// New creates a Session in StateUnknown. Call Restore to resolve the
// initial state from durable storage.
func New(client api.Client, store metadata.Repository) *Session {
	return &Session{api: client, store: store, state: StateUnknown}
}

// Restore resolves the initial session state. Without a stored token it
// settles in StateAnonymous without any network call. With one, it asks the
// server who the token belongs to; a failed check discards the stale token.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Get(ctx, tokenKey)
	if err != nil {
		s.settle(StateAnonymous, nil, "")
		return err
	}
	if len(token) == 0 {
		s.settle(StateAnonymous, nil, "")
		return nil
	}

	s.begin()
	defer s.finish()

	user, err := s.api.Me(ctx, string(token))
	if err != nil {
		_ = s.store.Delete(ctx, tokenKey)
		s.settle(StateAnonymous, nil, "")
		return nil
	}

	s.settle(StateAuthenticated, user, "")
	return nil
}

// Login authenticates with the server and, on success, persists the token
// and settles in StateAuthenticated.
func (s *Session) Login(ctx context.Context, email, password string) Result {
	s.begin()
	defer s.finish()

	user, token, err := s.api.Login(ctx, email, password)
	if err != nil {
		msg := displayMessage(err, "Login failed")
		s.settle(StateAnonymous, nil, msg)
		return Result{OK: false, Err: msg}
	}

	if err := s.store.Set(ctx, tokenKey, []byte(token)); err != nil {
		msg := "Login failed"
		s.settle(StateAnonymous, nil, msg)
		return Result{OK: false, Err: msg}
	}

	s.settle(StateAuthenticated, user, "")
	return Result{OK: true}
}

// SignUp creates an account and, on success, behaves exactly like a
// successful Login.
func (s *Session) SignUp(ctx context.Context, username, email, password string) Result {
	s.begin()
	defer s.finish()

	user, token, err := s.api.SignUp(ctx, username, email, password)
	if err != nil {
		msg := displayMessage(err, "Signup failed")
		s.settle(StateAnonymous, nil, msg)
		return Result{OK: false, Err: msg}
	}

	if err := s.store.Set(ctx, tokenKey, []byte(token)); err != nil {
		msg := "Signup failed"
		s.settle(StateAnonymous, nil, msg)
		return Result{OK: false, Err: msg}
	}

	s.settle(StateAuthenticated, user, "")
	return Result{OK: true}
}

// Logout discards the persisted token and resets the session. It makes no
// network call; the server keeps no session state to revoke.
func (s *Session) Logout(ctx context.Context) error {
	err := s.store.Delete(ctx, tokenKey)
	s.settle(StateAnonymous, nil, "")
	return err
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the current user, or nil when not authenticated.
func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether a user is currently signed in.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Loading reports whether a remote call is in flight. The flag is set on
// entry to every operation that talks to the server and cleared on exit,
// success or failure.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last failure message, or "" if the last operation
// succeeded.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.state = StateAuthenticating
	s.lastErr = ""
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

func (s *Session) settle(state State, user *api.User, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
	s.lastErr = errMsg
}

// displayMessage extracts a user-facing message from an API call error.
func displayMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, api.ErrUnavailable) {
		return "Server unavailable"
	}
	return fallback
}
