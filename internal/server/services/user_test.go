package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademidov/authgate/internal/common"
	"github.com/ademidov/authgate/internal/server/auth"
	"github.com/ademidov/authgate/internal/server/config"
	"github.com/ademidov/authgate/internal/server/repositories/users"
)

func newTestService() *UserService {
	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(users.NewMemoryRepository(), cfg)
}

func TestSignUp_Success(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, token, err := svc.SignUp(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotEmpty(t, token)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	// the plaintext is never stored
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.True(t, auth.VerifyPassword("pw1", user.PasswordHash))

	// the token identifies the new user
	uid, err := auth.GetUserIDFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, uid)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, _, err := svc.SignUp(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "bob", "a@x.com", "pw2")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, _, err := svc.SignUp(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "alice", "b@x.com", "pw2")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	created, _, err := svc.SignUp(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, _, err := svc.SignUp(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, _, errWrongPw := svc.Login(ctx, "a@x.com", "wrong")
	_, _, errNoUser := svc.Login(ctx, "ghost@x.com", "whatever")

	assert.ErrorIs(t, errWrongPw, common.ErrorUnauthorized)
	assert.ErrorIs(t, errNoUser, common.ErrorUnauthorized)
	assert.Equal(t, errWrongPw.Error(), errNoUser.Error())
}

func TestIdentify_Success(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	created, token, err := svc.SignUp(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	user, err := svc.Identify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestIdentify_GarbageToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Identify(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIdentify_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	created, _, err := svc.SignUp(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	expired, err := auth.GenerateToken(created.ID, []byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	_, err = svc.Identify(ctx, expired)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIdentify_TokenForDeletedUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// token signed with the right secret but for a subject that was never
	// created
	tok, err := auth.GenerateToken("no-such-user", []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	_, err = svc.Identify(ctx, tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
