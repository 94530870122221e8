package service

import (
	"context"
	"testing"

	"github.com/Skotchmaster/shopfront/internal/dbtest"
	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/repo"
	authmw "github.com/Skotchmaster/shopfront/pkg/middleware/auth"
	"github.com/Skotchmaster/shopfront/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (*AuthService, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	return &AuthService{
		Repo:          repo.New(dbtest.Open(t)),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        rec,
	}, rec
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "empty user name", in: RegisterInput{Email: "a@b.c", Password: "pw"}},
		{name: "empty email", in: RegisterInput{UserName: "a", Password: "pw"}},
		{name: "empty password", in: RegisterInput{UserName: "a", Email: "a@b.c"}},
		{name: "bad email", in: RegisterInput{UserName: "a", Email: "nope", Password: "pw"}},
	}

	for _, tt := range tests {
		_, err := svc.Register(context.Background(), tt.in)
		assert.ErrorIs(t, err, ErrValidation, tt.name)
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, rec := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{UserName: "trinity", Email: "Trinity@Example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "trinity@example.com", u.Email)
	assert.Equal(t, authmw.RoleUser, u.Role)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.Equal(t, []string{"user_registered"}, rec.Types(events.TopicUsers))

	_, err = svc.Register(ctx, RegisterInput{UserName: "other", Email: "trinity@example.com", Password: "x"})
	require.ErrorIs(t, err, ErrConflict)
	_, err = svc.Register(ctx, RegisterInput{UserName: "trinity", Email: "other@example.com", Password: "x"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Login(ctx, "trinity@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, "ghost@example.com", "s3cret")
	require.ErrorIs(t, err, ErrUnauthorized)

	res, err := svc.Login(ctx, " TRINITY@example.com ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, authmw.RoleUser, claims.Role)

	me, err := svc.CurrentUser(ctx, claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, "trinity", me.UserName)
}

func TestAuthService_RefreshRotatesOnce(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{UserName: "morpheus", Email: "m@example.com", Password: "pw"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "m@example.com", "pw")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized, "a rotated refresh token is spent")

	require.NoError(t, svc.Logout(ctx, next.RefreshToken))
	_, err = svc.Refresh(ctx, next.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized, "logout revokes the refresh token")

	_, err = svc.Refresh(ctx, "garbage")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "pw"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "pw"))

	res, err := svc.Login(ctx, "root@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, authmw.RoleAdmin, res.User.Role)
}
