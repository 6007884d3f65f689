package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPrefix is prepended to every environment variable name unless
// LoadOptions.Prefix says otherwise.
const DefaultPrefix = "BEAVER_"

// LoadOptions defines options for loading configuration from environment variables.
type LoadOptions struct {
	Prefix string // Prefix to prepend to environment variable names (default: "BEAVER_")
	Debug  bool   // Enable debug logging of configuration loading process
}

// Load populates a struct from .env file and environment variables using reflection.
// This function automatically loads .env files from the current directory and then
// reads environment variables to populate the provided struct.
//
// The function uses struct field tags to determine environment variable names:
//   - `env:"VAR_NAME"`: Maps the field to the specified environment variable
//   - `env:"VAR_NAME,default:value"`: Provides a default value if env var is not set
//
// Environment variable names are automatically prefixed with the value specified
// in LoadOptions.Prefix (defaults to "BEAVER_"). An explicitly empty prefix is
// honored when passed through LoadOptions.
//
// Returns an error if:
//   - cfg is not a pointer to a struct
//   - Type conversion fails for any field
//
// Example:
//
//	type Config struct {
//	    BaseURL string        `env:"OAUTH_BASE_URL"`
//	    Timeout time.Duration `env:"OAUTH_HTTP_TIMEOUT,default:30s"`
//	}
//
//	var cfg Config
//	err := config.Load(&cfg, config.LoadOptions{Prefix: "MYAPP_"})
//	// Will look for MYAPP_OAUTH_BASE_URL, MYAPP_OAUTH_HTTP_TIMEOUT
func Load(cfg interface{}, opts ...LoadOptions) error {
	options := LoadOptions{Prefix: DefaultPrefix}
	if len(opts) > 0 {
		options = opts[0]
	}

	// Missing .env is the normal case outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: reading .env: %w", err)
	}

	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: expected pointer to struct, got %T", cfg)
	}
	v := rv.Elem()
	t := v.Type()
	printDebug := options.Debug || os.Getenv("BEAVER_CONFIG_DEBUG") == "true"

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envName, defaultValue := parseTag(envTag)
		fullEnvName := options.Prefix + envName
		value, ok := os.LookupEnv(fullEnvName)
		if !ok || value == "" {
			value = defaultValue
		}
		if printDebug {
			slog.Debug("config lookup", "name", fullEnvName, "set", ok)
		}

		if value != "" {
			if err := setFieldValue(v.Field(i), value); err != nil {
				return fmt.Errorf("config: %s: %w", fullEnvName, err)
			}
		}
	}

	return nil
}

// parseTag splits `NAME,default:value,...` into the name and default. A default
// may itself contain commas (e.g. a list), so everything after "default:" up to
// the next recognised option is kept.
func parseTag(tag string) (name, def string) {
	parts := strings.Split(tag, ",")
	name = parts[0]
	for i := 1; i < len(parts); i++ {
		if !strings.HasPrefix(parts[i], "default:") {
			continue
		}
		vals := []string{strings.TrimPrefix(parts[i], "default:")}
		for _, rest := range parts[i+1:] {
			if strings.Contains(rest, ":") {
				break
			}
			vals = append(vals, rest)
		}
		def = strings.Join(vals, ",")
		break
	}
	return name, def
}

// setFieldValue sets the value of a struct field using reflection and type conversion.
//
// Supported types:
//   - string: Direct assignment
//   - int, int64: Parsed using strconv.ParseInt with base 10
//   - bool: Parsed using strconv.ParseBool (supports "true", "false", "1", "0", etc.)
//   - time.Duration: Parsed using time.ParseDuration
//   - []string: Comma-separated, each element trimmed
//
// Unsupported kinds are skipped silently.
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return nil
		}
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		field.Set(reflect.ValueOf(out))
	default:
		return nil
	}
	return nil
}

// LoadYAML decodes the YAML document at path into out. Unknown keys are
// rejected so that typos in provider files fail at startup.
func LoadYAML(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}
