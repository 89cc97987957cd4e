package service

import (
	"context"
	"testing"
	"time"

	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(store RateCounterStore, now time.Time) *RateLimiter {
	l := NewRateLimiter(store, config.DefaultSecurityConfig())
	l.now = func() time.Time { return now }
	return l
}

func TestRateLimiterPerKeyWindow(t *testing.T) {
	ctx := context.Background()
	store := newFakeCounterStore()
	limiter := newTestLimiter(store, time.UnixMilli(10_000_000))

	for i := 0; i < 10; i++ {
		ok, err := limiter.Allow(ctx, "1.2.3.4", "u1")
		require.NoError(t, err)
		require.True(t, ok, "request %d", i+1)
	}

	ok, err := limiter.Allow(ctx, "1.2.3.4", "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	key := "upload_rate_limit:1.2.3.4:u1"
	assert.Len(t, store.windows[key], 10, "rejected request must not be recorded")
	assert.Len(t, store.windows["global_rate_limit"], 10)
	assert.Equal(t, time.Hour, store.ttls[key])

	ok, err = limiter.Allow(ctx, "5.6.7.8", "u1")
	require.NoError(t, err)
	assert.True(t, ok, "a different IP has its own window")
}

func TestRateLimiterGlobalCeiling(t *testing.T) {
	ctx := context.Background()
	store := newFakeCounterStore()
	now := time.UnixMilli(10_000_000)
	ts := make([]int64, 100)
	for i := range ts {
		ts[i] = now.UnixMilli() - int64(i)
	}
	store.windows["global_rate_limit"] = ts

	limiter := newTestLimiter(store, now)
	ok, err := limiter.Allow(ctx, "1.2.3.4", "fresh-user")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, store.windows["upload_rate_limit:1.2.3.4:fresh-user"])
	assert.Len(t, store.windows["global_rate_limit"], 100)
}

func TestRateLimiterPrunesExpiredEntries(t *testing.T) {
	ctx := context.Background()
	store := newFakeCounterStore()
	now := time.UnixMilli(10_000_000)
	windowStart := now.Add(-time.Hour).UnixMilli()

	old := make([]int64, 0, 10)
	for i := 0; i < 9; i++ {
		old = append(old, windowStart-int64(i))
	}
	old = append(old, windowStart+1)
	store.windows["upload_rate_limit:ip:u1"] = old

	limiter := newTestLimiter(store, now)
	ok, err := limiter.Allow(ctx, "ip", "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{windowStart + 1, now.UnixMilli()}, store.windows["upload_rate_limit:ip:u1"])
}

func TestRateLimiterStoreError(t *testing.T) {
	store := newFakeCounterStore()
	store.getErr = errBoom

	ok, err := newTestLimiter(store, time.Now()).Allow(context.Background(), "ip", "u1")
	require.ErrorIs(t, err, errBoom)
	assert.False(t, ok)
}

func TestRateLimitKey(t *testing.T) {
	assert.Equal(t, "upload_rate_limit:unknown:u1", RateLimitKey("unknown", "u1"))
	assert.Equal(t, "upload_rate_limit:ip:anonymous", RateLimitKey("ip", ""))
}
