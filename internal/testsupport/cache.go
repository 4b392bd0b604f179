package testsupport

import (
	"context"
	"testing"
	"time"

	"playervalue/internal/cache"
	"playervalue/internal/config"
)

// MustOpenCache opens the cache configured by cfg and registers cleanup. A
// nil now uses the wall clock.
func MustOpenCache(t testing.TB, cfg *config.Config, now func() time.Time) *cache.Cache {
	t.Helper()

	store, err := cache.Open(context.Background(), cache.Options{
		Path:     cfg.Cache.Path,
		TTL:      cfg.CacheTTL(),
		MaxConns: cfg.Resolver.Concurrency,
		Now:      now,
	})
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
