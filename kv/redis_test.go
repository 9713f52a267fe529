package kv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newRedisFixture(t *testing.T) *RedisStore {
	t.Helper()
	mini := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisConfig{Addr: mini.Addr()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newRedisFixture(t)
	ctx := context.Background()

	if err := store.Set(ctx, "isNoiseSuppressionEnabled", false); err != nil {
		t.Fatalf("set: %v", err)
	}

	var enabled bool
	found, err := store.Get(ctx, "isNoiseSuppressionEnabled", &enabled)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || enabled {
		t.Fatalf("got found=%v value=%v", found, enabled)
	}
}

func TestRedisStore_MissingKey(t *testing.T) {
	store := newRedisFixture(t)

	var out string
	found, err := store.Get(context.Background(), "absent", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("missing key reported as found")
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store := newRedisFixture(t)
	ctx := context.Background()

	if err := store.Set(ctx, "transcriptionHistory", []string{"a"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, "transcriptionHistory"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var out []string
	found, _ := store.Get(ctx, "transcriptionHistory", &out)
	if found {
		t.Fatal("deleted key still present")
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "transcriptionHistory"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestRedisStore_KeysAreNamespaced(t *testing.T) {
	mini := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisConfig{Addr: mini.Addr(), KeyPrefix: "svc:"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer store.Close()

	if err := store.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mini.Exists("svc:k") {
		t.Fatal("expected prefixed key on the server")
	}
}

func TestRedisStore_RequiresAddr(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), RedisConfig{}); err == nil {
		t.Fatal("expected error without address")
	}
}
