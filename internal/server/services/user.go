// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, and token-backed identification.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ademidov/authgate/internal/common"
	"github.com/ademidov/authgate/internal/server/auth"
	"github.com/ademidov/authgate/internal/server/config"
	"github.com/ademidov/authgate/internal/server/models"
	"github.com/ademidov/authgate/internal/server/repositories/users"
)

// UserService provides authentication-related operations:
// - SignUp: create a user and mint a token
// - Login: verify credentials and mint a token
// - Identify: resolve a presented token to its user
type UserService struct {
	repo             users.Repository
	jwtSecret        []byte
	tokenValidityDur time.Duration
}

// NewUserService constructs a UserService using the credential store and
// server config.
func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:             repo,
		jwtSecret:        []byte(cfg.SecretKey),
		tokenValidityDur: cfg.TokenValidityDuration,
	}
}

// SignUp creates a new user with the given identity and password and returns
// the stored record together with a fresh token.
//
// A duplicate username or email yields common.ErrorAlreadyExists. The
// pre-insert lookup gives the common case a clean answer; the store-level
// uniqueness constraint closes the race between check and insert, so two
// concurrent signups with the same identity cannot both succeed.
func (s *UserService) SignUp(ctx context.Context, username, email, password string) (*models.User, string, error) {
	_, err := s.repo.FindByEmailOrUsername(ctx, email, username)
	if err == nil {
		return nil, "", common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", common.ErrorAlreadyExists
		}
		return nil, "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDur)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Login verifies the email/password pair and returns the user and a fresh
// token. An unknown email and a wrong password both yield
// common.ErrorUnauthorized, so callers cannot enumerate accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDur)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Identify verifies tokenString and returns the user it was issued to.
// Every verification failure, including a token whose subject no longer
// exists, collapses into common.ErrInvalidToken.
func (s *UserService) Identify(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
