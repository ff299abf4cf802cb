package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "auth-service/internal/domain/user"
)

func setupTestCache(t *testing.T) (UserCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	return c, mr
}

func TestRedisUserCache_SetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	u := &domain.User{ID: 1, Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, c.Set(ctx, u))

	got, err := c.Get(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, got)
}

func TestRedisUserCache_Get_Miss(t *testing.T) {
	c, _ := setupTestCache(t)

	got, err := c.Get(context.Background(), "missing@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Delete(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	u := &domain.User{ID: 1, Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, c.Set(ctx, u))
	require.NoError(t, c.Delete(ctx, "a@x.com"))

	got, err := c.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Set_NilUser(t *testing.T) {
	c, _ := setupTestCache(t)

	assert.Error(t, c.Set(context.Background(), nil))
}

func TestRedisUserCache_TTLExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	u := &domain.User{ID: 1, Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, c.Set(ctx, u))

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}
