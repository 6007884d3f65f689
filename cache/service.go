package cache

import (
	"errors"
	"fmt"

	"github.com/gobeaver/beaver-social/cache/driver"
	"github.com/gobeaver/beaver-social/cache/driver/memory"
	"github.com/gobeaver/beaver-social/cache/driver/redis"
	"github.com/gobeaver/beaver-social/config"
)

// Common errors
var (
	ErrInvalidDriver = errors.New("invalid cache driver")
	ErrKeyNotFound   = driver.ErrKeyNotFound
)

// Builder provides a way to create cache instances with custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// New creates a new cache instance using the builder's prefix
func (b *Builder) New() (Cache, error) {
	cfg, err := GetConfig(config.LoadOptions{Prefix: b.prefix})
	if err != nil {
		return nil, err
	}
	return New(*cfg)
}

// New creates a new cache instance with given config
func New(cfg Config) (Cache, error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.New(memory.Config{
			MaxKeys:         cfg.MaxKeys,
			DefaultTTL:      cfg.DefaultTTL,
			CleanupInterval: cfg.CleanupInterval,
			KeyPrefix:       cfg.KeyPrefix,
			Namespace:       cfg.Namespace,
		}), nil
	case "redis":
		return redis.New(redis.Config{
			Host:         cfg.Host,
			Port:         cfg.Port,
			Password:     cfg.Password,
			Database:     cfg.Database,
			URL:          cfg.URL,
			MaxRetries:   cfg.MaxRetries,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			UseTLS:       cfg.UseTLS,
			KeyPrefix:    cfg.KeyPrefix,
			Namespace:    cfg.Namespace,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriver, cfg.Driver)
	}
}
