package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"medipin-ocr/internal/domain/alerts"
	"medipin-ocr/internal/domain/scans"
)

func entry(code string, at time.Time) scans.CacheEntry {
	return scans.CacheEntry{
		Response:  scans.ReadResponse{Success: true, Code: code},
		Alert:     alerts.Normal(),
		CreatedAt: at,
	}
}

func TestCache_GetSetOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewCache(0, 0)

	if _, ok, err := c.Get(ctx, "h1"); ok || err != nil {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	_ = c.Set(ctx, "h1", entry("FIRST", time.Now()))
	_ = c.Set(ctx, "h1", entry("SECOND", time.Now()))

	got, ok, err := c.Get(ctx, "h1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Response.Code != "SECOND" {
		t.Fatalf("last writer should win, got %s", got.Response.Code)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 live entry per hash, got %d", c.Len())
	}

	// otro hash no ve la entrada de h1
	if other, ok, err := c.Get(ctx, "h2"); ok || err != nil {
		t.Fatalf("expected miss for other hash, got %#v ok=%v err=%v", other, ok, err)
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewCache(2, 0)

	_ = c.Set(ctx, "a", entry("A", time.Now()))
	_ = c.Set(ctx, "b", entry("B", time.Now()))
	_ = c.Set(ctx, "c", entry("C", time.Now()))

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatalf("oldest entry should have been evicted")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok, _ := c.Get(ctx, k); !ok {
			t.Fatalf("expected %s to survive", k)
		}
	}
}

func TestCache_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	c := NewCache(0, time.Minute)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "h", entry("OK", now))

	now = now.Add(30 * time.Second)
	if _, ok, _ := c.Get(ctx, "h"); !ok {
		t.Fatalf("expected hit before ttl")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, "h"); ok {
		t.Fatalf("expected miss after ttl")
	}
}

func TestCache_ConcurrentSet(t *testing.T) {
	ctx := context.Background()
	c := NewCache(0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "same", entry("OK", time.Now()))
			_, _, _ = c.Get(ctx, "same")
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Fatalf("expected single entry, got %d", c.Len())
	}
}
