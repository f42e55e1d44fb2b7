package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoexpected/stemhub-backend/internal/config"
	"github.com/anoexpected/stemhub-backend/internal/model"
)

func newAuthFixture(t *testing.T) (*AuthService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // minimum cost keeps tests fast
	}
	return NewAuthService(cfg, rdb), mr
}

func TestPasswordHashing(t *testing.T) {
	svc, _ := newAuthFixture(t)

	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, svc.CheckPassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, svc.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	actor := &model.Actor{ID: uuid.New(), Role: model.RoleContributor}

	token, err := svc.GenerateToken(ctx, actor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, claims.UserID)
	assert.Equal(t, "contributor", claims.Role)

	require.NoError(t, svc.ValidateSession(ctx, actor.ID, claims.ID))
}

func TestTokenWrongSecretRejected(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	actor := &model.Actor{ID: uuid.New(), Role: model.RoleStudent}

	token, err := svc.GenerateToken(ctx, actor)
	require.NoError(t, err)

	other := NewAuthService(&config.Config{JWTSecret: "different", JWTExpiry: time.Hour}, nil)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestSessionRevocation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	actor := &model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	token, err := svc.GenerateToken(ctx, actor)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSession(ctx, actor.ID))

	// The token still parses but the session is gone.
	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.ErrorIs(t, svc.ValidateSession(ctx, actor.ID, claims.ID), ErrSessionRevoked)
}

// Issuing a new token supersedes the old session: one active session per
// user, so the older token's JTI no longer matches.
func TestNewLoginSupersedesOldSession(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	actor := &model.Actor{ID: uuid.New(), Role: model.RoleStudent}

	first, err := svc.GenerateToken(ctx, actor)
	require.NoError(t, err)
	_, err = svc.GenerateToken(ctx, actor)
	require.NoError(t, err)

	firstClaims, err := svc.ValidateToken(first)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ValidateSession(ctx, actor.ID, firstClaims.ID), ErrSessionRevoked)
}

func TestSessionExpiry(t *testing.T) {
	svc, mr := newAuthFixture(t)
	ctx := context.Background()
	actor := &model.Actor{ID: uuid.New(), Role: model.RoleStudent}

	token, err := svc.GenerateToken(ctx, actor)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	assert.ErrorIs(t, svc.ValidateSession(ctx, actor.ID, claims.ID), ErrSessionRevoked)
}
