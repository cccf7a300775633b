// Package ratelimit implements the per-source-IP sliding window used
// to bound job creation (spec: 1 hour window, max 10 creations per
// IP). The in-memory shape follows the teacher pack's
// map[string]*entry + sync.Mutex pattern (see
// paulround2tele-studio/backend/internal/middleware/rate_limiter.go);
// an optional Redis-backed implementation lets the window survive
// across multiple process instances.
package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultWindow and DefaultMax are the spec's job-creation limits.
const (
	DefaultWindow = time.Hour
	DefaultMax    = 10
)

// Limiter reports whether a request from the given key (source IP)
// is allowed under the sliding window, and if not, how long until the
// oldest request in the window ages out.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// Memory is an in-process sliding-window limiter: a map of key to a
// slice of request timestamps, pruned on every check. Correct for a
// single process instance; use Redis for multi-instance deployments.
type Memory struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	history map[string][]time.Time
}

// NewMemory builds a Memory limiter with the given window and max
// request count. Zero values fall back to DefaultWindow/DefaultMax.
func NewMemory(window time.Duration, max int) *Memory {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}
	return &Memory{window: window, max: max, history: make(map[string][]time.Time)}
}

// Allow implements Limiter.
func (m *Memory) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()
	cutoff := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	times := pruneBefore(m.history[key], cutoff)
	if len(times) >= m.max {
		retryAfter := times[0].Add(m.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		m.history[key] = times
		return false, retryAfter, nil
	}

	times = append(times, now)
	m.history[key] = times
	return true, 0, nil
}

func pruneBefore(times []time.Time, cutoff time.Time) []time.Time {
	out := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// Redis is a distributed sliding-window limiter backed by a sorted
// set per key: score is the request's Unix-nanosecond timestamp,
// member is that same value formatted as a string so entries never
// collide. Old entries are trimmed on every check with
// ZREMRANGEBYSCORE before ZCARD/ZADD.
type Redis struct {
	client *redis.Client
	window time.Duration
	max    int
	prefix string
}

// NewRedis builds a Redis-backed limiter. Zero window/max fall back
// to DefaultWindow/DefaultMax.
func NewRedis(client *redis.Client, window time.Duration, max int) *Redis {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}
	return &Redis{client: client, window: window, max: max, prefix: "keywordscope:ratelimit:"}
}

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()
	cutoff := now.Add(-r.window)
	redisKey := r.prefix + key

	if err := r.client.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff.UnixNano(), 10)).Err(); err != nil {
		return false, 0, err
	}

	count, err := r.client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}

	if count >= int64(r.max) {
		oldest, err := r.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err != nil {
			return false, 0, err
		}
		retryAfter := r.window
		if len(oldest) > 0 {
			oldestAt := time.Unix(0, int64(oldest[0].Score))
			retryAfter = oldestAt.Add(r.window).Sub(now)
			if retryAfter < 0 {
				retryAfter = 0
			}
		}
		return false, retryAfter, nil
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	if err := r.client.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member}).Err(); err != nil {
		return false, 0, err
	}
	if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
		return false, 0, err
	}
	return true, 0, nil
}
