package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gobeaver/beaver-social/cache/driver"
)

// ErrMaxKeys is returned by Set when the key limit is reached.
var ErrMaxKeys = errors.New("max keys limit reached")

// item represents a cached item with expiration
type item struct {
	value      []byte
	expiration int64
}

func (it *item) expired(now int64) bool {
	return it.expiration > 0 && now > it.expiration
}

// MemoryCache implements an in-memory cache
type MemoryCache struct {
	mu              sync.Mutex
	items           map[string]*item
	maxKeys         int
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
	keyPrefix       string
}

// Config holds memory cache specific configuration
type Config struct {
	MaxKeys         int
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
	KeyPrefix       string
	Namespace       string
}

// New creates a new memory cache instance and starts its cleanup loop.
func New(cfg Config) *MemoryCache {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	mc := &MemoryCache{
		items:           make(map[string]*item),
		maxKeys:         cfg.MaxKeys,
		defaultTTL:      cfg.DefaultTTL,
		cleanupInterval: cfg.CleanupInterval,
		stopCleanup:     make(chan struct{}),
		keyPrefix:       driver.JoinPrefix(cfg.Namespace, cfg.KeyPrefix),
	}

	go mc.cleanupExpired()

	return mc
}

// Get retrieves a value by key
func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	it, ok := mc.items[mc.keyPrefix+key]
	if !ok || it.expired(time.Now().UnixNano()) {
		return nil, driver.ErrKeyNotFound
	}
	return append([]byte(nil), it.value...), nil
}

// Set stores a value. A zero ttl falls back to the configured default, a
// negative ttl stores without expiry.
func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	fullKey := mc.keyPrefix + key
	if mc.maxKeys > 0 && len(mc.items) >= mc.maxKeys {
		if _, exists := mc.items[fullKey]; !exists {
			return ErrMaxKeys
		}
	}

	if ttl == 0 {
		ttl = mc.defaultTTL
	}
	var expiration int64
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}

	mc.items[fullKey] = &item{
		value:      append([]byte(nil), value...),
		expiration: expiration,
	}
	return nil
}

// Take returns the value for key and removes it in the same critical section.
func (mc *MemoryCache) Take(_ context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	fullKey := mc.keyPrefix + key
	it, ok := mc.items[fullKey]
	if !ok {
		return nil, driver.ErrKeyNotFound
	}
	delete(mc.items, fullKey)
	if it.expired(time.Now().UnixNano()) {
		return nil, driver.ErrKeyNotFound
	}
	return it.value, nil
}

// Delete removes a key
func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	delete(mc.items, mc.keyPrefix+key)
	return nil
}

// Close stops the cleanup loop. It is safe to call more than once.
func (mc *MemoryCache) Close() error {
	mc.closeOnce.Do(func() { close(mc.stopCleanup) })
	return nil
}

// Ping checks if cache is operational
func (mc *MemoryCache) Ping(context.Context) error {
	return nil
}

// Len reports the number of live keys under this cache's prefix.
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now().UnixNano()
	n := 0
	for k, it := range mc.items {
		if strings.HasPrefix(k, mc.keyPrefix) && !it.expired(now) {
			n++
		}
	}
	return n
}

func (mc *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(mc.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.removeExpired()
		case <-mc.stopCleanup:
			return
		}
	}
}

func (mc *MemoryCache) removeExpired() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now().UnixNano()
	for key, it := range mc.items {
		if it.expired(now) {
			delete(mc.items, key)
		}
	}
}
