package cache

import (
	"errors"
	"testing"
	"time"
)

func TestPageCacheGetOrCompute(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pc := NewPageCache(nil, 20*time.Second)
	pc.now = func() time.Time { return now }

	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("rendered feed"), nil
	}

	val, err := pc.GetOrCompute(compute)
	if err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if string(val) != "rendered feed" {
		t.Errorf("GetOrCompute() = %q, want %q", val, "rendered feed")
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	// Second call inside the TTL window hits the slot.
	if _, err := pc.GetOrCompute(compute); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times inside TTL, want 1", calls)
	}

	// Past the TTL the slot expires and the page is recomputed.
	now = now.Add(21 * time.Second)
	if _, err := pc.GetOrCompute(compute); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("compute called %d times after expiry, want 2", calls)
	}
}

func TestPageCacheStaleUntilExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pc := NewPageCache(nil, 20*time.Second)
	pc.now = func() time.Time { return now }

	pc.Set([]byte("snapshot one"))

	// A write to the store does not touch the cache; within the TTL the
	// old snapshot is still served.
	now = now.Add(10 * time.Second)
	val, ok := pc.Get()
	if !ok {
		t.Fatal("expected a cache hit inside the TTL window")
	}
	if string(val) != "snapshot one" {
		t.Errorf("Get() = %q, want the stale snapshot", val)
	}

	now = now.Add(11 * time.Second)
	if _, ok := pc.Get(); ok {
		t.Error("expected a miss after the TTL elapsed")
	}
}

func TestPageCacheComputeError(t *testing.T) {
	pc := NewPageCache(nil, 20*time.Second)

	wantErr := errors.New("compose failed")
	_, err := pc.GetOrCompute(func() ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("GetOrCompute() error = %v, want %v", err, wantErr)
	}

	if _, ok := pc.Get(); ok {
		t.Error("a failed compute must not populate the slot")
	}
}

func TestPageCacheDefaultTTL(t *testing.T) {
	pc := NewPageCache(nil, 0)
	if pc.ttl != DefaultPageTTL {
		t.Errorf("ttl = %s, want default %s", pc.ttl, DefaultPageTTL)
	}
}
