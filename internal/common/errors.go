// Package common defines shared constants and sentinel errors used across
// client and server layers of authgate. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Token lifecycle errors. The first three are distinguished internally;
	// the HTTP layer surfaces all of them as ErrInvalidToken so that callers
	// cannot tell a forged token from an expired one.
	ErrTokenExpired   = errors.New("token expired")
	ErrBadSignature   = errors.New("bad token signature")
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")

	// ErrMissingToken means no token was presented at all. Unlike the
	// invalid-token cases it carries no enumeration risk and may be reported
	// with a more specific message.
	ErrMissingToken = errors.New("missing token")
)
