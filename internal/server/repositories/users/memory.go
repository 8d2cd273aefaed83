package users

import (
	"context"
	"sync"

	"github.com/ademidov/authgate/internal/common"
	"github.com/ademidov/authgate/internal/server/models"
)

// MemoryRepository is an in-memory credential store used in tests. It
// enforces the same uniqueness guarantees as the real backends.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by ID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, common.ErrorAlreadyExists
		}
	}

	clone := *user
	r.users[user.ID] = &clone
	return user, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email || u.Username == username })
}

func (r *MemoryRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}
