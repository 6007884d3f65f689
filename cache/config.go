package cache

import (
	"strings"
	"time"

	"github.com/gobeaver/beaver-social/config"
)

// Config holds cache configuration
type Config struct {
	// Driver specifies cache backend: "memory" or "redis"
	Driver string `env:"CACHE_DRIVER,default:memory"`

	// Redis specific settings
	Host     string `env:"CACHE_HOST,default:localhost"`
	Port     string `env:"CACHE_PORT,default:6379"`
	Password string `env:"CACHE_PASSWORD"`
	Database int    `env:"CACHE_DATABASE,default:0"`

	// Connection URL (overrides host/port/password)
	URL string `env:"CACHE_URL"`

	// Connection pool settings
	MaxRetries   int  `env:"CACHE_MAX_RETRIES,default:3"`
	PoolSize     int  `env:"CACHE_POOL_SIZE,default:10"`
	MinIdleConns int  `env:"CACHE_MIN_IDLE_CONNS,default:2"`
	UseTLS       bool `env:"CACHE_USE_TLS,default:false"`

	// Memory cache specific
	MaxKeys         int           `env:"CACHE_MAX_KEYS,default:0"`
	DefaultTTL      time.Duration `env:"CACHE_DEFAULT_TTL,default:10m"`
	CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL,default:1m"`

	// Common settings
	KeyPrefix string `env:"CACHE_KEY_PREFIX"` // prefix for all keys
	Namespace string `env:"CACHE_NAMESPACE"`  // namespace for isolation
}

// GetConfig loads configuration from environment variables
func GetConfig(opts ...config.LoadOptions) (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, opts...); err != nil {
		return nil, err
	}

	cfg.Driver = strings.ToLower(cfg.Driver)
	return cfg, nil
}
