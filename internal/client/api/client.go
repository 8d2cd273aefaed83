// Package api defines the client-side view of the authgate REST API:
// the Client interface, the transported User shape, and the error types
// callers branch on.
package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// User is the user object as returned by the server. It never contains
// credential material.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrUnavailable means the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// Error is a failure response from the server, carrying the display
// message from the JSON envelope.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is the remote API surface used by the session layer.
//
// Contract:
//   - SignUp: create an account; returns the user and a fresh token.
//   - Login: authenticate; returns the user and a fresh token.
//   - Me: resolve a token to its user.
//   - Health: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	SignUp(ctx context.Context, username, email, password string) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	Me(ctx context.Context, token string) (*User, error)
	Health(ctx context.Context) error
}
