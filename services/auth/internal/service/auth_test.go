package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/session"
	"github.com/kinoteka/online_cinema/pkg/tokens"
	"github.com/kinoteka/online_cinema/services/auth/internal/models"
	"github.com/kinoteka/online_cinema/services/auth/internal/repo"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one connection only: every pooled conn gets its own :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)

	cache, err := session.New("redis://" + mr.Addr())
	require.NoError(t, err)

	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	return &AuthService{
		Repo:     &repo.GormRepo{DB: db},
		Sessions: cache,
		Codec:    tokens.NewCodec([]byte("test-jwt-secret")),
	}
}

func TestAuthService_Register(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "pw123", user.PasswordHash)

	_, err = svc.Register(ctx, "alice", "alice2@example.com", "pw123")
	assert.ErrorIs(t, err, ErrUserExists)

	// the email column is unique too, not just the username
	_, err = svc.Register(ctx, "alice2", "alice@example.com", "pw123")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "empty username", username: "", email: "a@b.c", password: "pw"},
		{name: "empty email", username: "user", email: "", password: "pw"},
		{name: "empty password", username: "user", email: "a@b.c", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login_TokenSubjectMatchesUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	claims, err := svc.Codec.Decode(res.Token)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), claims.Subject)

	alive, err := svc.Sessions.SessionAlive(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, alive, "login must create the session marker")
}

func TestAuthService_Login_EnumerationSafety(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody", "pw123")
	_, errWrongPw := svc.Login(ctx, "alice", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error(),
		"unknown user and wrong password must be indistinguishable")
}

func TestAuthService_Logout_KillsSessionAndBlacklistsToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID, res.Token))

	alive, err := svc.Sessions.SessionAlive(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, alive, "logout must delete the session marker")

	black, err := svc.Sessions.IsBlacklisted(ctx, user.ID, res.Token)
	require.NoError(t, err)
	assert.True(t, black, "logout must blacklist the presented token")
}

func TestAuthService_MakeAdmin_Idempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	promoted, err := svc.MakeAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, promoted)

	stored, err := svc.Repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)

	promoted, err = svc.MakeAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, promoted, "second promotion must report already-admin")
}
