package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()

	ctx := context.Background()

	type payload struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	in := payload{Name: "vibration", Value: 4.2}
	if err := mc.Set(ctx, "k1", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	if err := mc.Get(ctx, "k1", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out string
	err := mc.Get(context.Background(), "absent", &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	ctx := context.Background()
	if err := mc.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	var out string
	if err := mc.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	ctx := context.Background()
	if err := mc.Set(ctx, "a", 1, time.Minute); err != nil {
		t.Fatalf("Set a: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := mc.Set(ctx, "b", 2, time.Minute); err != nil {
		t.Fatalf("Set b: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	// Touch "a" so "b" becomes the eviction candidate.
	var v int
	if err := mc.Get(ctx, "a", &v); err != nil {
		t.Fatalf("Get a: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if err := mc.Set(ctx, "c", 3, time.Minute); err != nil {
		t.Fatalf("Set c: %v", err)
	}

	if ok, _ := mc.Exists(ctx, "b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if ok, _ := mc.Exists(ctx, "a"); !ok {
		t.Fatal("expected a to survive")
	}
	if ok, _ := mc.Exists(ctx, "c"); !ok {
		t.Fatal("expected c to be present")
	}
}

func TestPayloadKeyDeterministic(t *testing.T) {
	type req struct {
		Signal []float64 `json:"signal"`
	}

	a := PayloadKey("spectrum", req{Signal: []float64{1, 2, 3}})
	b := PayloadKey("spectrum", req{Signal: []float64{1, 2, 3}})
	c := PayloadKey("spectrum", req{Signal: []float64{1, 2, 4}})

	if a != b {
		t.Fatalf("identical payloads produced different keys: %s vs %s", a, b)
	}
	if a == c {
		t.Fatal("different payloads produced the same key")
	}
}
