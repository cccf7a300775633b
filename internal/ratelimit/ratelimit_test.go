package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryAllowsUpToMax(t *testing.T) {
	m := NewMemory(time.Hour, 3)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, _, err := m.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}
}

func TestMemoryRejectsOverMaxWithRetryAfter(t *testing.T) {
	m := NewMemory(time.Hour, 2)
	ctx := context.Background()
	m.Allow(ctx, "1.2.3.4")
	m.Allow(ctx, "1.2.3.4")

	allowed, retryAfter, err := m.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected third request within the window to be rejected")
	}
	if retryAfter <= 0 || retryAfter > time.Hour {
		t.Fatalf("expected a positive retryAfter within the window, got %v", retryAfter)
	}
}

func TestMemoryTracksKeysIndependently(t *testing.T) {
	m := NewMemory(time.Hour, 1)
	ctx := context.Background()

	allowedA, _, _ := m.Allow(ctx, "1.1.1.1")
	allowedB, _, _ := m.Allow(ctx, "2.2.2.2")
	if !allowedA || !allowedB {
		t.Fatalf("expected distinct keys to have independent windows")
	}

	allowedAAgain, _, _ := m.Allow(ctx, "1.1.1.1")
	if allowedAAgain {
		t.Fatalf("expected second request from the same key to be rejected")
	}
}

func TestMemoryWindowExpiresOldRequests(t *testing.T) {
	m := NewMemory(5*time.Millisecond, 1)
	ctx := context.Background()

	allowed, _, _ := m.Allow(ctx, "1.2.3.4")
	if !allowed {
		t.Fatalf("expected first request to be allowed")
	}

	time.Sleep(10 * time.Millisecond)

	allowed, _, _ = m.Allow(ctx, "1.2.3.4")
	if !allowed {
		t.Fatalf("expected request to be allowed again once the window expired")
	}
}

func TestPruneBeforeDropsOlderTimestamps(t *testing.T) {
	now := time.Now()
	times := []time.Time{now.Add(-2 * time.Hour), now.Add(-time.Minute), now}
	pruned := pruneBefore(times, now.Add(-time.Hour))
	if len(pruned) != 2 {
		t.Fatalf("expected 2 timestamps to survive the hour cutoff, got %d", len(pruned))
	}
}
