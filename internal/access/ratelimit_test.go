package access

import (
	"sync"
	"testing"
	"time"

	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/domain/user"
)

func testRateConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Explorer:       config.TierQuota{Limit: 20, Window: time.Hour},
		Growth:         config.TierQuota{Limit: 200, Window: time.Hour},
		Transformation: config.TierQuota{Limit: 1000, Window: time.Hour},
		Guard:          config.TierQuota{Limit: 5, Window: 15 * time.Minute},
	}
}

func newTestLimiter(now *time.Time) (*Limiter, *MemoryStore) {
	store := NewMemoryStore()
	l := NewLimiter(store, testRateConfig())
	l.now = func() time.Time { return *now }
	return l, store
}

func TestLimiter_ExactQuotaThenThrottled(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(&now)

	// Explorer hourly limit 20: requests 1-20 allowed, 21 throttled
	for i := 1; i <= 20; i++ {
		d := l.Allow("user:1", user.TierExplorer)
		if !d.Allowed {
			t.Fatalf("request %d: Allowed = false, want true", i)
		}
		if d.Remaining != 20-i {
			t.Errorf("request %d: Remaining = %d, want %d", i, d.Remaining, 20-i)
		}
	}

	d := l.Allow("user:1", user.TierExplorer)
	if d.Allowed {
		t.Fatal("request 21: Allowed = true, want throttled")
	}
	if d.RetryAfterSeconds <= 0 {
		t.Errorf("RetryAfterSeconds = %d, want > 0", d.RetryAfterSeconds)
	}
	if !d.ResetAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ResetAt = %v, want %v", d.ResetAt, now.Add(time.Hour))
	}
}

func TestLimiter_WindowReset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, store := newTestLimiter(&now)

	// Exhaust the window and keep hammering past the limit
	for i := 0; i < 25; i++ {
		l.Allow("user:1", user.TierExplorer)
	}
	if d := l.Allow("user:1", user.TierExplorer); d.Allowed {
		t.Fatal("expected throttled before reset")
	}

	// Over-limit attempts were still recorded
	w, _ := store.Get("user:1")
	if w.Count != 26 {
		t.Errorf("window count = %d, want 26", w.Count)
	}

	now = now.Add(time.Hour)
	d := l.Allow("user:1", user.TierExplorer)
	if !d.Allowed {
		t.Fatal("first request after window expiry: Allowed = false, want true")
	}
	if d.Remaining != 19 {
		t.Errorf("Remaining after reset = %d, want 19", d.Remaining)
	}

	w, _ = store.Get("user:1")
	if w.Count != 1 {
		t.Errorf("window count after reset = %d, want 1", w.Count)
	}
	if !w.Start.Equal(now) {
		t.Errorf("window start after reset = %v, want %v", w.Start, now)
	}
}

func TestLimiter_RetryAfterRoundsUp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(&now)

	for i := 0; i < 20; i++ {
		l.Allow("user:1", user.TierExplorer)
	}

	// 1ms before reset the retry hint still reports a full second
	now = now.Add(time.Hour - time.Millisecond)
	d := l.Allow("user:1", user.TierExplorer)
	if d.Allowed {
		t.Fatal("expected throttled")
	}
	if d.RetryAfterSeconds != 1 {
		t.Errorf("RetryAfterSeconds = %d, want 1", d.RetryAfterSeconds)
	}
}

func TestLimiter_TierChangeTakesEffectImmediately(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(&now)

	for i := 0; i < 21; i++ {
		l.Allow("user:1", user.TierExplorer)
	}
	if d := l.Allow("user:1", user.TierExplorer); d.Allowed {
		t.Fatal("expected Explorer quota exhausted")
	}

	// Upgrade: the Growth quota applies on the very next request, with the
	// already-recorded count held against the larger limit
	d := l.Allow("user:1", user.TierGrowth)
	if !d.Allowed {
		t.Fatal("request after upgrade: Allowed = false, want true")
	}
	if d.Limit != 200 {
		t.Errorf("Limit after upgrade = %d, want 200", d.Limit)
	}
}

func TestLimiter_UnknownTierGetsExplorerQuota(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(&now)

	d := l.Allow("ip:203.0.113.7", "")
	if !d.Allowed {
		t.Fatal("Allowed = false, want true")
	}
	if d.Limit != 20 {
		t.Errorf("Limit = %d, want Explorer's 20", d.Limit)
	}
}

func TestLimiter_IndependentKeys(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(&now)

	for i := 0; i < 21; i++ {
		l.Allow("user:1", user.TierExplorer)
	}
	if d := l.Allow("user:2", user.TierExplorer); !d.Allowed {
		t.Error("user:2 throttled by user:1's consumption")
	}
}

func TestLimiter_NoDoubleAdmissionAtBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(&now)

	// Drive the counter to limit-1
	for i := 0; i < 19; i++ {
		if d := l.Allow("user:1", user.TierExplorer); !d.Allowed {
			t.Fatalf("setup request %d throttled", i)
		}
	}

	// Two concurrent requests compete for the final slot
	var wg sync.WaitGroup
	results := make([]Decision, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Allow("user:1", user.TierExplorer)
		}(i)
	}
	wg.Wait()

	allowed := 0
	for _, d := range results {
		if d.Allowed {
			allowed++
		}
	}
	if allowed != 1 {
		t.Errorf("concurrent requests at count=limit-1: %d allowed, want exactly 1", allowed)
	}
}

func TestLimiter_ConcurrentRequestsNeverOverAdmit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(&now)

	const workers = 8
	const perWorker = 10 // 80 total against a limit of 20

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if d := l.Allow("user:1", user.TierExplorer); d.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if allowed != 20 {
		t.Errorf("allowed = %d, want exactly the limit 20", allowed)
	}
}

func TestLimiter_GuardWindowUniform(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, store := newTestLimiter(&now)

	// Guard limit 5 on a 15-minute window, independent of any tier
	for i := 1; i <= 5; i++ {
		if d := l.AllowGuard("198.51.100.9"); !d.Allowed {
			t.Fatalf("guard request %d: Allowed = false, want true", i)
		}
	}

	d := l.AllowGuard("198.51.100.9")
	if d.Allowed {
		t.Fatal("guard request 6: Allowed = true, want throttled")
	}
	if d.Limit != 5 {
		t.Errorf("Limit = %d, want guard's 5", d.Limit)
	}
	if !d.ResetAt.Equal(now.Add(15 * time.Minute)) {
		t.Errorf("ResetAt = %v, want %v", d.ResetAt, now.Add(15*time.Minute))
	}
	if d.RetryAfterSeconds <= 0 {
		t.Errorf("RetryAfterSeconds = %d, want > 0", d.RetryAfterSeconds)
	}

	// Guard windows live under their own key prefix, so the caller's tier
	// window is untouched
	if d := l.Allow("198.51.100.9", user.TierExplorer); !d.Allowed {
		t.Error("tier window charged by guard consumption")
	}
	if _, ok := store.Get("guard:198.51.100.9"); !ok {
		t.Error("guard window not present in the shared store")
	}
}

func TestLimiter_GuardWindowResets(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLimiter(&now)

	for i := 0; i < 6; i++ {
		l.AllowGuard("198.51.100.9")
	}
	if d := l.AllowGuard("198.51.100.9"); d.Allowed {
		t.Fatal("expected throttled before the guard window resets")
	}

	now = now.Add(15 * time.Minute)
	d := l.AllowGuard("198.51.100.9")
	if !d.Allowed {
		t.Fatal("first guard request after window expiry: Allowed = false, want true")
	}
	if d.Remaining != 4 {
		t.Errorf("Remaining after reset = %d, want 4", d.Remaining)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()

	store.CompareAndSwap("stale", nil, Window{Count: 5, Start: now.Add(-3 * time.Hour)})
	store.CompareAndSwap("fresh", nil, Window{Count: 5, Start: now.Add(-10 * time.Minute)})

	removed := store.Sweep(now, 2*time.Hour)
	if removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if _, ok := store.Get("stale"); ok {
		t.Error("stale window survived sweep")
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Error("fresh window evicted by sweep")
	}
}

func TestMemoryStore_CompareAndSwap(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	if !store.CompareAndSwap("k", nil, Window{Count: 1, Start: now}) {
		t.Fatal("create CAS failed on absent key")
	}
	if store.CompareAndSwap("k", nil, Window{Count: 1, Start: now}) {
		t.Error("create CAS succeeded on existing key")
	}

	cur, _ := store.Get("k")
	if !store.CompareAndSwap("k", &cur, Window{Count: 2, Start: now}) {
		t.Error("update CAS failed with matching expected value")
	}
	if store.CompareAndSwap("k", &cur, Window{Count: 3, Start: now}) {
		t.Error("update CAS succeeded with stale expected value")
	}
}
