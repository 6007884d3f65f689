package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// Test struct with various field types
type TestConfig struct {
	StringField   string        `env:"TEST_STRING"`
	IntField      int           `env:"TEST_INT"`
	Int64Field    int64         `env:"TEST_INT64"`
	BoolField     bool          `env:"TEST_BOOL"`
	DurationField time.Duration `env:"TEST_DURATION,default:30s"`
	ListField     []string      `env:"TEST_LIST,default:a,b"`
	DefaultField  string        `env:"TEST_DEFAULT,default:defaultValue"`
	NoTagField    string        // Field without env tag
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected TestConfig
		wantErr  bool
	}{
		{
			name: "all fields set from environment",
			envVars: map[string]string{
				"BEAVER_TEST_STRING":   "hello",
				"BEAVER_TEST_INT":      "42",
				"BEAVER_TEST_INT64":    "9223372036854775807",
				"BEAVER_TEST_BOOL":     "true",
				"BEAVER_TEST_DURATION": "2m",
				"BEAVER_TEST_LIST":     "x, y ,z",
			},
			expected: TestConfig{
				StringField:   "hello",
				IntField:      42,
				Int64Field:    9223372036854775807,
				BoolField:     true,
				DurationField: 2 * time.Minute,
				ListField:     []string{"x", "y", "z"},
				DefaultField:  "defaultValue",
			},
		},
		{
			name:    "empty environment leaves defaults",
			envVars: map[string]string{},
			expected: TestConfig{
				DurationField: 30 * time.Second,
				ListField:     []string{"a", "b"},
				DefaultField:  "defaultValue",
			},
		},
		{
			name: "override default value",
			envVars: map[string]string{
				"BEAVER_TEST_DEFAULT": "overridden",
			},
			expected: TestConfig{
				DurationField: 30 * time.Second,
				ListField:     []string{"a", "b"},
				DefaultField:  "overridden",
			},
		},
		{
			name:    "invalid int value",
			envVars: map[string]string{"BEAVER_TEST_INT": "not-a-number"},
			wantErr: true,
		},
		{
			name:    "invalid bool value",
			envVars: map[string]string{"BEAVER_TEST_BOOL": "not-a-bool"},
			wantErr: true,
		},
		{
			name:    "invalid duration value",
			envVars: map[string]string{"BEAVER_TEST_DURATION": "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := &TestConfig{}
			err := Load(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(*cfg, tt.expected) {
				t.Errorf("Load() = %+v, want %+v", *cfg, tt.expected)
			}
		})
	}
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("MYAPP_TEST_STRING", "prefixed")
	t.Setenv("BEAVER_TEST_STRING", "default-prefix")

	cfg := &TestConfig{}
	if err := Load(cfg, LoadOptions{Prefix: "MYAPP_", Debug: true}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StringField != "prefixed" {
		t.Errorf("StringField = %q, want %q", cfg.StringField, "prefixed")
	}
}

func TestLoadRejectsNonPointer(t *testing.T) {
	if err := Load(TestConfig{}); err == nil {
		t.Error("Expected error for non-pointer config")
	}
}

func TestSetFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		target  interface{}
		value   string
		wantErr bool
	}{
		{name: "valid string", target: &struct{ Field string }{}, value: "test"},
		{name: "valid int", target: &struct{ Field int }{}, value: "123"},
		{name: "valid int64", target: &struct{ Field int64 }{}, value: "9223372036854775807"},
		{name: "valid bool 1", target: &struct{ Field bool }{}, value: "1"},
		{name: "invalid int", target: &struct{ Field int }{}, value: "abc", wantErr: true},
		{name: "invalid bool", target: &struct{ Field bool }{}, value: "yes", wantErr: true},
		{name: "unsupported float skipped", target: &struct{ Field float64 }{}, value: "3.14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := reflect.ValueOf(tt.target).Elem().Field(0)
			err := setFieldValue(field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("setFieldValue() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag      string
		wantName string
		wantDef  string
	}{
		{"COMPLEX_FIELD1,default:value1", "COMPLEX_FIELD1", "value1"},
		{"COMPLEX_FIELD2,default:value2,other:ignored", "COMPLEX_FIELD2", "value2"},
		{"COMPLEX_FIELD3,something,default:value3", "COMPLEX_FIELD3", "value3"},
		{"SCOPES,default:openid,profile,email", "SCOPES", "openid,profile,email"},
		{"PLAIN", "PLAIN", ""},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			name, def := parseTag(tt.tag)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if def != tt.wantDef {
				t.Errorf("default = %q, want %q", def, tt.wantDef)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	type entry struct {
		Type string `yaml:"type"`
		Key  string `yaml:"key"`
	}
	type doc struct {
		Providers []entry `yaml:"providers"`
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	if err := os.WriteFile(path, []byte("providers:\n  - type: github\n    key: abc\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out doc
	if err := LoadYAML(path, &out); err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}
	if len(out.Providers) != 1 {
		t.Fatalf("Expected 1 provider, got %d", len(out.Providers))
	}
	if want := (entry{Type: "github", Key: "abc"}); out.Providers[0] != want {
		t.Errorf("Provider = %+v, want %+v", out.Providers[0], want)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("providers:\n  - type: github\n    colour: red\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadYAML(bad, &out); err == nil {
		t.Error("Expected error for unknown key")
	}

	if err := LoadYAML(filepath.Join(dir, "missing.yaml"), &out); err == nil {
		t.Error("Expected error for missing file")
	}
}
