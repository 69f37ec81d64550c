package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

type payload struct {
	Temperature float64 `json:"temperature"`
	City        string  `json:"city"`
}

func TestJSONRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	key := WidgetKey("forecast", "39.90", "116.41")

	var miss payload
	found, err := s.GetJSON(ctx, key, &miss)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetJSON(ctx, key, payload{Temperature: 21.5, City: "北京"}, time.Minute))

	var got payload
	found, err = s.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Temperature: 21.5, City: "北京"}, got)

	mr.FastForward(2 * time.Minute)
	found, err = s.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found, "payload should expire")
}

func TestGetJSONCorruptValue(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set(WidgetKey("aqi", "x"), "{not json"))

	var got payload
	_, err := s.GetJSON(ctx, WidgetKey("aqi", "x"), &got)
	assert.Error(t, err)
}

func TestResolutionCache(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	target, err := s.GetCachedResolution(ctx, "git")
	require.NoError(t, err)
	assert.Empty(t, target)

	require.NoError(t, s.CacheResolution(ctx, " Git ", "https://github.com", DefaultCacheTTL))
	require.NoError(t, s.CacheResolution(ctx, "mail", "https://mail.google.com", DefaultCacheTTL))

	target, err = s.GetCachedResolution(ctx, "git")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com", target)

	require.NoError(t, s.InvalidateCache(ctx, "git"))
	target, err = s.GetCachedResolution(ctx, "git")
	require.NoError(t, err)
	assert.Empty(t, target)

	require.NoError(t, s.FlushCache(ctx))
	target, err = s.GetCachedResolution(ctx, "mail")
	require.NoError(t, err)
	assert.Empty(t, target)
}

func TestFlushCacheKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	for i := 0; i < 2*flushBatch+7; i++ {
		require.NoError(t, s.CacheResolution(ctx, fmt.Sprintf("q%d", i), "https://example.com", time.Hour))
	}
	require.NoError(t, s.SetJSON(ctx, WidgetKey("air", "1", "2"), payload{City: "x"}, time.Hour))
	require.NoError(t, s.IncrementUsage(ctx, "https://example.com"))

	require.NoError(t, s.FlushCache(ctx))

	for _, key := range mr.Keys() {
		assert.NotContains(t, key, KeyPrefixCache)
	}
	assert.True(t, mr.Exists(WidgetKey("air", "1", "2")))
	assert.True(t, mr.Exists(UsageKey()))
	assert.Len(t, mr.Keys(), 2, "only the widget payload and usage hash remain")
}

func TestUsageCounters(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.IncrementUsage(ctx, "https://github.com"))
	}
	require.NoError(t, s.IncrementUsage(ctx, "https://bilibili.com"))

	stats, err := s.GetUsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"https://github.com":   3,
		"https://bilibili.com": 1,
	}, stats)
}

func TestPing(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))

	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}
