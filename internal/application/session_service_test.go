package application

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	"github.com/qixeo/qixeo-web/pkg/helpers"
)

func newSessionFixture(t *testing.T) (*SessionService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewSessionService(rdb, jwt, time.Hour, helpers.NewDiscardLogger()), mr
}

var ada = &entity.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Image: "https://img.test/ada.png"}

func TestSessionStartAndResolve(t *testing.T) {
	svc, mr := newSessionFixture(t)
	ctx := context.Background()

	token, exp, err := svc.Start(ctx, ada)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))
	assert.True(t, mr.Exists("user:session:u1"))
	assert.Equal(t, time.Hour, mr.TTL("user:session:u1"))

	sess := svc.Resolve(ctx, token)
	assert.Equal(t, entity.SessionAuthenticated, sess.Status)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "Ada", sess.Name)
	assert.Equal(t, "ada@example.com", sess.Email)
	assert.Equal(t, "https://img.test/ada.png", sess.Image)
}

func TestSessionResolve_Unauthenticated(t *testing.T) {
	svc, mr := newSessionFixture(t)
	ctx := context.Background()

	assert.Equal(t, entity.SessionUnauthenticated, svc.Resolve(ctx, "").Status)
	assert.Equal(t, entity.SessionUnauthenticated, svc.Resolve(ctx, "not-a-jwt").Status)

	token, _, err := svc.Start(ctx, ada)
	require.NoError(t, err)

	// a second sign-in rotates the sid and orphans the first token
	_, _, err = svc.Start(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionUnauthenticated, svc.Resolve(ctx, token).Status)

	mr.Del("user:session:u1")
	assert.Equal(t, entity.SessionUnauthenticated, svc.Resolve(ctx, token).Status)
}

func TestSessionResolve_StoreDownIsLoading(t *testing.T) {
	svc, mr := newSessionFixture(t)
	ctx := context.Background()

	token, _, err := svc.Start(ctx, ada)
	require.NoError(t, err)

	mr.Close()

	assert.Equal(t, entity.SessionLoading, svc.Resolve(ctx, token).Status)
}

func TestSessionWithoutRedis(t *testing.T) {
	svc := NewSessionService(nil, helpers.NewJWTManager("s", time.Hour), 0, nil)

	_, _, err := svc.Start(context.Background(), ada)
	assert.ErrorIs(t, err, ErrSessionStore)

	token, _, err := svc.JWT.GenerateSessionToken("u1", "sid")
	require.NoError(t, err)
	assert.Equal(t, entity.SessionUnauthenticated, svc.Resolve(context.Background(), token).Status)
	assert.NoError(t, svc.End(context.Background(), token))
}

func TestSessionEnd(t *testing.T) {
	svc, mr := newSessionFixture(t)
	ctx := context.Background()

	old, _, err := svc.Start(ctx, ada)
	require.NoError(t, err)
	current, _, err := svc.Start(ctx, ada)
	require.NoError(t, err)

	// a stale token does not end the current session
	require.NoError(t, svc.End(ctx, old))
	assert.True(t, mr.Exists("user:session:u1"))

	require.NoError(t, svc.End(ctx, current))
	assert.False(t, mr.Exists("user:session:u1"))
	assert.Equal(t, entity.SessionUnauthenticated, svc.Resolve(ctx, current).Status)

	assert.NoError(t, svc.End(ctx, current))
}

func TestSessionRevoke(t *testing.T) {
	svc, mr := newSessionFixture(t)
	ctx := context.Background()

	_, _, err := svc.Start(ctx, ada)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, "u1"))
	assert.False(t, mr.Exists("user:session:u1"))
}
