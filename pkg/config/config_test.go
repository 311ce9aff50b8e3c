package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[search]
objective = "max"
workers = 4

[cache]
backend = "redis"
redis_addr = "cache:6379"

[server]
request_timeout = "30s"
`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Search.Objective != "max" || cfg.Search.Workers != 4 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	// Unset keys keep their defaults.
	if cfg.Storage.Backend != StorageMemory || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if d, _ := cfg.Server.Timeout(); d != 30*time.Second {
		t.Errorf("Timeout() = %v", d)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "[search]\nspeed = 11\n"},
		{"unknown section", "[telemetry]\nenabled = true\n"},
		{"misspelled key", "[cache]\nredis_address = \"x:1\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
				t.Errorf("Decode() = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"objective", func(c *Config) { c.Search.Objective = "median" }},
		{"workers", func(c *Config) { c.Search.Workers = -2 }},
		{"cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }},
		{"storage backend", func(c *Config) { c.Storage.Backend = "postgres" }},
		{"mongo uri", func(c *Config) { c.Storage.Backend = StorageMongo; c.Storage.MongoURI = "" }},
		{"timeout", func(c *Config) { c.Server.RequestTimeout = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
				t.Errorf("Validate() = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[storage]\nbackend = \"file\"\ndir = \"/tmp/results\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != StorageFile || cfg.Storage.Dir != "/tmp/results" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.toml")
	_ = os.WriteFile(unknown, []byte("[search]\nspeed = 11\n"), 0644)
	broken := filepath.Join(dir, "broken.toml")
	_ = os.WriteFile(broken, []byte("[search\n"), 0644)

	tests := []struct {
		name string
		path string
		code cerrors.Code
	}{
		{"missing explicit file", filepath.Join(dir, "nope.toml"), cerrors.ErrCodeNotFound},
		{"unknown key", unknown, cerrors.ErrCodeInvalidFormat},
		{"syntax error", broken, cerrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if got := cerrors.GetCode(err); got != tt.code {
				t.Errorf("Load error = %v (code %s), want %s", err, got, tt.code)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CSMTREE_REDIS_ADDR": "redis:6380",
		"CSMTREE_WORKERS":    "3",
		"CSMTREE_STORAGE":    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Cache.RedisAddr != "redis:6380" || cfg.Search.Workers != 3 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Storage.Backend != StorageMemory {
		t.Error("empty variables should not override")
	}

	env["CSMTREE_WORKERS"] = "many"
	if err := cfg.ApplyEnv(lookup); !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
		t.Errorf("bad CSMTREE_WORKERS error = %v", err)
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	for _, want := range []string{"[search]", "[cache]", "[storage]", "[server]", `backend = "file"`} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
