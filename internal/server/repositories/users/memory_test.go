package users

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademidov/authgate/internal/common"
	"github.com/ademidov/authgate/internal/server/models"
)

func newUser(id, username, email string) *models.User {
	return &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$fake",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, newUser("1", "alice", "a@x.com"))
	require.NoError(t, err)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", byEmail.Username)

	byID, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_UniquenessOnBothFields(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, newUser("1", "alice", "a@x.com"))
	require.NoError(t, err)

	// same email, different username
	_, err = repo.Create(ctx, newUser("2", "bob", "a@x.com"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	// same username, different email
	_, err = repo.Create(ctx, newUser("3", "alice", "b@x.com"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := newUser(string(rune('a'+i)), "racer", "race@x.com")
			_, errs[i] = repo.Create(ctx, u)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, common.ErrorAlreadyExists)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestMemoryRepository_FindByEmailOrUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, newUser("1", "alice", "a@x.com"))
	require.NoError(t, err)

	got, err := repo.FindByEmailOrUsername(ctx, "nope@x.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	got, err = repo.FindByEmailOrUsername(ctx, "a@x.com", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	_, err = repo.FindByEmailOrUsername(ctx, "nope@x.com", "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
