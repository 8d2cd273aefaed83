// Package users defines the credential store contract and its backends.
//
// All backends enforce uniqueness of username and email at the store level,
// so two concurrent signups with the same identity cannot both succeed even
// if they pass the service-level pre-check simultaneously. A violated
// constraint surfaces as common.ErrorAlreadyExists.
package users

import (
	"context"

	"github.com/ademidov/authgate/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. Returns common.ErrorAlreadyExists if the
	// username or email is already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmail returns the user with the given email, or
	// common.ErrorNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns the user with the given ID, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmailOrUsername returns a user matching either field, or
	// common.ErrorNotFound. Used for the pre-insert duplicate check.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
}
