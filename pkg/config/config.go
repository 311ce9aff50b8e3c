// Package config loads csmtree settings from a TOML file.
//
// Settings are layered: built-in defaults, then the config file, then
// CSMTREE_* environment variables, then command-line flags (applied by the
// caller). A missing config file is not an error.
//
//	[search]
//	objective = "minimize"
//	max_candidates = 1000000
//	workers = 0
//	dedup_before_scoring = false
//
//	[cache]
//	backend = "file"        # file | redis | none
//	dir = ""                # default: user cache dir
//	redis_addr = "localhost:6379"
//	prefix = "csmtree:v1:"
//
//	[storage]
//	backend = "memory"      # memory | file | mongo
//	dir = ""
//	mongo_uri = "mongodb://localhost:27017"
//	database = "csmtree"
//
//	[server]
//	addr = ":8080"
//	metrics = true
//	request_timeout = "2m"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	cerrors "github.com/matzehuels/csmtree/pkg/errors"
	"github.com/matzehuels/csmtree/pkg/labeling"
)

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StorageMemory = "memory"
	StorageFile   = "file"
	StorageMongo  = "mongo"
)

// Config holds all csmtree configuration.
type Config struct {
	Search  SearchConfig  `toml:"search"`
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
}

// SearchConfig holds labeling search defaults.
type SearchConfig struct {
	Objective          string `toml:"objective"`
	MaxCandidates      int    `toml:"max_candidates"`
	MaxSubtrees        int    `toml:"max_subtrees"`
	Workers            int    `toml:"workers"`
	DedupBeforeScoring bool   `toml:"dedup_before_scoring"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	Prefix    string `toml:"prefix"`
}

// StorageConfig selects and configures the result archive.
type StorageConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	Metrics        bool   `toml:"metrics"`
	RequestTimeout string `toml:"request_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Search: SearchConfig{
			Objective:     labeling.Minimize.String(),
			MaxCandidates: labeling.DefaultMaxCandidates,
			MaxSubtrees:   labeling.DefaultMaxSubtrees,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
			Prefix:    "csmtree:v1:",
		},
		Storage: StorageConfig{
			Backend:  StorageMemory,
			MongoURI: "mongodb://localhost:27017",
			Database: "csmtree",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			Metrics:        true,
			RequestTimeout: "2m",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/csmtree/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "csmtree", "config.toml"), nil
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. When path is empty DefaultPath is
// used; a missing file yields the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	cfg := Default()
	if path != "" {
		if err := cerrors.ValidatePath(path); err != nil {
			return Config{}, err
		}
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			cfg = Default()
		case errors.Is(err, fs.ErrNotExist):
			return Config{}, cerrors.Wrap(cerrors.ErrCodeNotFound, err, "config file %s", path)
		case err != nil:
			return Config{}, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "parse config %s", path)
		default:
			if err := checkUndecoded(md); err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults without touching the
// environment. Unknown keys are rejected.
func Decode(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// checkUndecoded fails when the document set keys Config has no field for.
func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return cerrors.New(cerrors.ErrCodeInvalidFormat, "unknown config keys: %s", strings.Join(keys, ", "))
}

// ApplyEnv overrides settings from CSMTREE_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("CSMTREE_OBJECTIVE", &c.Search.Objective)
	str("CSMTREE_CACHE", &c.Cache.Backend)
	str("CSMTREE_CACHE_DIR", &c.Cache.Dir)
	str("CSMTREE_REDIS_ADDR", &c.Cache.RedisAddr)
	str("CSMTREE_STORAGE", &c.Storage.Backend)
	str("CSMTREE_MONGO_URI", &c.Storage.MongoURI)
	str("CSMTREE_ADDR", &c.Server.Addr)

	if v, ok := lookup("CSMTREE_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "CSMTREE_WORKERS")
		}
		c.Search.Workers = n
	}
	return nil
}

// Validate rejects unknown backends and out-of-range values.
func (c Config) Validate() error {
	if _, err := labeling.ParseObjective(c.Search.Objective); err != nil {
		return err
	}
	if c.Search.Workers < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "search.workers must not be negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return cerrors.New(cerrors.ErrCodeInvalidInput,
			"cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Storage.Backend {
	case StorageMemory, StorageFile:
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "storage.mongo_uri is required for the mongo backend")
		}
	default:
		return cerrors.New(cerrors.ErrCodeInvalidInput,
			"storage.backend %q (must be one of: memory, file, mongo)", c.Storage.Backend)
	}
	if _, err := c.Server.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout parses RequestTimeout. Empty means no timeout.
func (s ServerConfig) Timeout() (time.Duration, error) {
	if s.RequestTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.RequestTimeout)
	if err != nil || d < 0 {
		return 0, cerrors.New(cerrors.ErrCodeInvalidInput, "server.request_timeout %q is not a valid duration", s.RequestTimeout)
	}
	return d, nil
}

// String renders the configuration as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
