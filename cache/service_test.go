package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobeaver/beaver-social/cache"
	"github.com/gobeaver/beaver-social/config"
)

func TestCacheService(t *testing.T) {
	t.Run("MemoryDriver", func(t *testing.T) {
		c, err := cache.New(cache.Config{
			Driver:     "memory",
			MaxKeys:    100,
			DefaultTTL: 5 * time.Minute,
		})
		if err != nil {
			t.Fatalf("Failed to create memory cache: %v", err)
		}
		defer c.Close()

		testCacheOperations(t, c)
	})

	// Skipped unless a Redis server is listening locally
	t.Run("RedisDriver", func(t *testing.T) {
		c, err := cache.New(cache.Config{
			Driver:    "redis",
			Host:      "localhost",
			Port:      "6379",
			Database:  1,
			KeyPrefix: "beaver-social-test:",
		})
		if err != nil {
			t.Skipf("Redis not available: %v", err)
		}
		defer c.Close()

		testCacheOperations(t, c)
	})
}

func testCacheOperations(t *testing.T, c cache.Cache) {
	ctx := context.Background()

	if err := c.Set(ctx, "test-key", []byte("test-value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "test-value" {
		t.Errorf("Expected test-value, got %q", got)
	}

	taken, err := c.Take(ctx, "test-key")
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if string(taken) != "test-value" {
		t.Errorf("Expected test-value, got %q", taken)
	}

	if _, err := c.Take(ctx, "test-key"); !errors.Is(err, cache.ErrKeyNotFound) {
		t.Errorf("Second Take: expected ErrKeyNotFound, got %v", err)
	}
	if _, err := c.Get(ctx, "test-key"); !errors.Is(err, cache.ErrKeyNotFound) {
		t.Errorf("Get after Take: expected ErrKeyNotFound, got %v", err)
	}

	// Test expiration
	if err := c.Set(ctx, "short", []byte("v"), 50*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(120 * time.Millisecond)
	if _, err := c.Get(ctx, "short"); !errors.Is(err, cache.ErrKeyNotFound) {
		t.Errorf("Expected expired key to be gone, got %v", err)
	}

	// Test Delete
	if err := c.Set(ctx, "gone", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "gone"); !errors.Is(err, cache.ErrKeyNotFound) {
		t.Errorf("Expected deleted key to be gone, got %v", err)
	}

	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestTakeIsSingleUse(t *testing.T) {
	c, err := cache.New(cache.Config{Driver: "memory"})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "handshake", []byte("secret"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Take(ctx, "handshake"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if n := wins.Load(); n != 1 {
		t.Errorf("Expected exactly one Take to win, got %d", n)
	}
}

func TestMaxKeys(t *testing.T) {
	c, err := cache.New(cache.Config{Driver: "memory", MaxKeys: 1})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "a", []byte("1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(ctx, "a", []byte("2"), 0); err != nil {
		t.Errorf("Overwrite should not count against MaxKeys: %v", err)
	}
	if err := c.Set(ctx, "b", []byte("1"), 0); err == nil {
		t.Error("Expected error when MaxKeys is reached")
	}
}

func TestNamespaceIsolation(t *testing.T) {
	a, err := cache.New(cache.Config{Driver: "memory", Namespace: "a"})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer a.Close()
	b, err := cache.New(cache.Config{Driver: "memory", Namespace: "b"})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	if err := a.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := b.Get(ctx, "k"); !errors.Is(err, cache.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound across namespaces, got %v", err)
	}
}

func TestInvalidDriver(t *testing.T) {
	if _, err := cache.New(cache.Config{Driver: "memcached"}); !errors.Is(err, cache.ErrInvalidDriver) {
		t.Errorf("Expected ErrInvalidDriver, got %v", err)
	}
}

func TestBuilderWithPrefix(t *testing.T) {
	t.Setenv("APP_CACHE_DRIVER", "MEMORY")
	t.Setenv("APP_CACHE_DEFAULT_TTL", "30s")

	cfg, err := cache.GetConfig(config.LoadOptions{Prefix: "APP_"})
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg.Driver != "memory" {
		t.Errorf("Expected driver memory, got %q", cfg.Driver)
	}
	if cfg.DefaultTTL != 30*time.Second {
		t.Errorf("Expected default TTL 30s, got %v", cfg.DefaultTTL)
	}

	c, err := cache.WithPrefix("APP_").New()
	if err != nil {
		t.Fatalf("Builder New failed: %v", err)
	}
	defer c.Close()
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
