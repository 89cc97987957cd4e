package service

import (
	"context"
	"fmt"
	"time"

	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
)

// RateLimiter enforces the per user+IP sliding window and the global ceiling.
// Reads and writes are not atomic; concurrent requests may overshoot a limit
// by a few entries.
type RateLimiter struct {
	store    RateCounterStore
	security *config.SecurityConfig
	now      func() time.Time
}

func NewRateLimiter(store RateCounterStore, security *config.SecurityConfig) *RateLimiter {
	return &RateLimiter{store: store, security: security, now: time.Now}
}

func RateLimitKey(ip, principalID string) string {
	if principalID == "" {
		principalID = "anonymous"
	}
	return config.RateLimitKeyPrefix + ":" + ip + ":" + principalID
}

// Allow reports whether one more upload may proceed for ip and principalID and
// records it in both windows when it may. A rejected request is not recorded in
// the per-key window.
func (r *RateLimiter) Allow(ctx context.Context, ip, principalID string) (bool, error) {
	now := r.now()
	window := r.security.RateLimitWindow()

	userWindow, err := r.load(ctx, RateLimitKey(ip, principalID), now, window)
	if err != nil {
		return false, err
	}
	if userWindow.Count() >= r.security.RateLimitMaxRequests() {
		return false, nil
	}

	exceeded, err := r.globalExceeded(ctx, now, window)
	if err != nil {
		return false, err
	}
	if exceeded {
		return false, nil
	}

	userWindow.Record(now)
	if err := r.store.SetTimestamps(ctx, userWindow.Key, userWindow.Timestamps, window); err != nil {
		return false, fmt.Errorf("failed to record rate window %s: %w", userWindow.Key, err)
	}
	return true, nil
}

// globalExceeded checks the global window and records the request in it when
// there is room left.
func (r *RateLimiter) globalExceeded(ctx context.Context, now time.Time, window time.Duration) (bool, error) {
	global, err := r.load(ctx, config.GlobalRateLimitKey, now, window)
	if err != nil {
		return false, err
	}
	if global.Count() >= r.security.GlobalRateLimit() {
		return true, nil
	}

	global.Record(now)
	if err := r.store.SetTimestamps(ctx, global.Key, global.Timestamps, window); err != nil {
		return false, fmt.Errorf("failed to record rate window %s: %w", global.Key, err)
	}
	return false, nil
}

func (r *RateLimiter) load(ctx context.Context, key string, now time.Time, window time.Duration) (*entity.RateWindow, error) {
	timestamps, err := r.store.GetTimestamps(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate window %s: %w", key, err)
	}
	w := &entity.RateWindow{Key: key, Timestamps: timestamps}
	w.Prune(now, window)
	return w, nil
}
