package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(data, []byte("value")) {
		t.Errorf("data = %q, want value", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss after Delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected expired entry to miss")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "doc:abc", []byte(`{"outputs":{}}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "doc:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(data, []byte(`{"outputs":{}}`)) {
		t.Errorf("data = %q", data)
	}

	// Miss for an unknown key
	if _, hit, _ := c.Get(ctx, "doc:other"); hit {
		t.Error("expected miss for unknown key")
	}

	// Expired entries miss
	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expected expired entry to miss")
	}

	// Delete removes entries and tolerates repeats
	if err := c.Delete(ctx, "doc:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "doc:abc"); err != nil {
		t.Fatalf("repeat Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "doc:abc"); hit {
		t.Error("expected miss after Delete")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	opts := SampleKeyOpts{Output: "height", Dimensions: 2, Width: 64, Height: 64, Scale: 0.1}
	a := k.SampleKey("dochash", opts)
	b := k.SampleKey("dochash", opts)
	if a != b {
		t.Error("equal inputs should produce equal keys")
	}

	opts.Dimensions = 3
	if c := k.SampleKey("dochash", opts); c == a {
		t.Error("different options should produce different keys")
	}

	if k.DocumentKey("g1") == k.DocumentKey("g2") {
		t.Error("different graph hashes should produce different keys")
	}
	if k.DocumentKey("g1") == k.RenderKey("g1", RenderKeyOpts{Format: "svg"}) {
		t.Error("stages should not share key space")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "project:terrain:")

	got := scoped.DocumentKey("abc")
	want := "project:terrain:" + inner.DocumentKey("abc")
	if got != want {
		t.Errorf("DocumentKey = %q, want %q", got, want)
	}
}
