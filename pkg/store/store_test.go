package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

// storeUnderTest runs the shared contract tests against one backend.
func storeUnderTest(t *testing.T, s Store) {
	ctx := context.Background()
	t.Cleanup(func() { _ = s.Close(ctx) })

	rec, err := NewRecord("terrain", []byte(`{"nodes":[],"wires":[]}`))
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}

	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "terrain" {
		t.Errorf("name = %q, want terrain", got.Name)
	}
	if !bytes.Equal(got.Graph, rec.Graph) {
		t.Errorf("graph = %q, want %q", got.Graph, rec.Graph)
	}

	// Unknown ID
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: err = %v, want ErrNotFound", err)
	}

	// Overwrite refreshes UpdatedAt
	firstUpdate := got.UpdatedAt
	time.Sleep(time.Millisecond)
	rec.Graph = []byte(`{"nodes":[{"id":"a","kind":"Perlin"}],"wires":[]}`)
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err = s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if !got.UpdatedAt.After(firstUpdate) {
		t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, firstUpdate)
	}

	// List contains the record
	sums, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sums) != 1 || sums[0].ID != rec.ID {
		t.Errorf("summaries = %+v, want one entry for %s", sums, rec.ID)
	}

	// Delete is idempotent
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("repeat Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	storeUnderTest(t, s)
}

func TestMemoryStoreCopiesGraphBytes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec, err := NewRecord("g", []byte("original"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	got.Graph[0] = 'X'

	again, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Graph, []byte("original")) {
		t.Error("mutating a returned record leaked into the store")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
