package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-admin/internal/core/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*OperatorCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOperatorCache(client, ttl, zerolog.Nop()), mr
}

func sampleOperator() *domain.Operator {
	return &domain.Operator{
		ID:           "op-1",
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         domain.RoleReadWrite,
		Active:       true,
	}
}

func TestOperatorCache_SetGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, time.Minute)

	cache.Set(ctx, sampleOperator())

	got, ok := cache.Get(ctx, "ana@example.com")
	require.True(t, ok)
	assert.Equal(t, "op-1", got.ID)
	assert.Equal(t, domain.RoleReadWrite, got.Role)
	assert.True(t, got.Active)
	assert.Empty(t, got.PasswordHash)
}

func TestOperatorCache_NeverStoresHash(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	cache.Set(ctx, sampleOperator())

	raw, err := mr.Get("operator:ana@example.com")
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")
}

func TestOperatorCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	_, ok := cache.Get(context.Background(), "nobody@example.com")
	assert.False(t, ok)
}

func TestOperatorCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, 10*time.Second)

	cache.Set(ctx, sampleOperator())
	mr.FastForward(11 * time.Second)

	_, ok := cache.Get(ctx, "ana@example.com")
	assert.False(t, ok)
}

func TestOperatorCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, time.Minute)

	cache.Set(ctx, sampleOperator())
	other := sampleOperator()
	other.Email = "bob@example.com"
	cache.Set(ctx, other)

	cache.Invalidate(ctx, "ana@example.com", "bob@example.com")

	_, ok := cache.Get(ctx, "ana@example.com")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "bob@example.com")
	assert.False(t, ok)
}

func TestOperatorCache_SetAfterInvalidateIsIgnored(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, 10*time.Second)

	// A reader loaded the admin record, then the role was lowered and the
	// entry invalidated before the reader wrote it back.
	loaded := sampleOperator()
	loaded.Role = domain.RoleAdmin
	cache.Invalidate(ctx, loaded.Email)
	cache.Set(ctx, loaded)

	_, ok := cache.Get(ctx, loaded.Email)
	assert.False(t, ok, "stale record must not repopulate the cache")

	mr.FastForward(11 * time.Second)
	cache.Set(ctx, sampleOperator())
	got, ok := cache.Get(ctx, loaded.Email)
	require.True(t, ok)
	assert.Equal(t, domain.RoleReadWrite, got.Role)
}

func TestOperatorCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	require.NoError(t, mr.Set("operator:ana@example.com", "{not json"))

	_, ok := cache.Get(ctx, "ana@example.com")
	assert.False(t, ok)
}

func TestOperatorCache_UnavailableIsMiss(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	cache.Set(ctx, sampleOperator())
	_, ok := cache.Get(ctx, "ana@example.com")
	assert.False(t, ok)
	cache.Invalidate(ctx, "ana@example.com")
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	_, err = Connect(context.Background(), Config{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestConnect_RequiresPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	_, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	assert.Error(t, err)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "s3cret"})
	require.NoError(t, err)
	defer client.Close()
}

func TestProbe(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	probe := NewProbe(client)
	assert.NoError(t, probe.Ping(context.Background()))

	mr.Close()
	assert.Error(t, probe.Ping(context.Background()))
}
