// Package config provides configuration loading from environment variables
// with support for custom prefixes, automatic type conversion, .env file loading
// and YAML documents.
//
// # Basic Usage
//
// Define a configuration struct with environment variable tags:
//
//	type Config struct {
//	    BaseURL     string        `env:"OAUTH_BASE_URL"`
//	    HTTPTimeout time.Duration `env:"OAUTH_HTTP_TIMEOUT,default:30s"`
//	    Debug       bool          `env:"OAUTH_DEBUG,default:false"`
//	}
//
// Load configuration from environment variables:
//
//	var cfg Config
//	err := config.Load(&cfg)
//	// Looks up BEAVER_OAUTH_BASE_URL, BEAVER_OAUTH_HTTP_TIMEOUT, BEAVER_OAUTH_DEBUG
//
// # Custom Prefixes
//
//	err := config.Load(&cfg, config.LoadOptions{Prefix: "MYAPP_"})
//
// Packages built on this loader expose the same thing through a builder:
//
//	registry, err := oauth.WithPrefix("MYAPP_").New()
//
// # Supported Types
//
//   - string
//   - int, int64
//   - bool ("true", "false", "1", "0")
//   - time.Duration ("1h30m", "45s")
//   - []string (comma-separated, elements trimmed)
//
// # Environment File Support
//
// A .env file in the working directory is loaded first. Variables that are
// already set in the process environment take precedence over the file.
//
// # YAML Documents
//
// Structured settings that do not fit in a flat environment, such as the list
// of identity providers, are read with LoadYAML. Unknown keys are an error.
//
// # Debug Mode
//
//	export BEAVER_CONFIG_DEBUG=true
//
// or LoadOptions{Debug: true} logs every lookup at debug level through log/slog.
// Values are never logged.
package config
