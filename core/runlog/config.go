package runlog

import (
	"context"
	"errors"
	"fmt"
)

// Backend names.
const (
	BackendMemory        = "memory"
	BackendJSONL         = "jsonl"
	BackendJSONLRotating = "jsonl_rotating"
	BackendSQLite        = "sqlite"
	BackendRedis         = "redis"
	BackendPostgres      = "postgres"
)

// ErrUnknownBackend is returned for an unsupported backend name.
var ErrUnknownBackend = errors.New("runlog: unknown backend")

// Config defines where allocation runs are recorded.
type Config struct {
	// Backend selects the store type.
	Backend string `json:"backend"`
	// Path is the file location for the jsonl, jsonl_rotating and sqlite backends.
	Path string `json:"path"`
	// DSN is the PostgreSQL connection string.
	DSN string `json:"dsn"`
	// URL is the Redis URL and Key the list holding records.
	URL string `json:"url"`
	Key string `json:"key"`
	// Rotation settings for jsonl_rotating.
	MaxSizeMB  int `json:"max_size_mb"`
	MaxBackups int `json:"max_backups"`
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "allocations.db"
		case BackendJSONL, BackendJSONLRotating:
			c.Path = "allocations.jsonl"
		}
	}
	if c.Backend == BackendJSONLRotating && c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
	if c.Backend == BackendRedis && c.Key == "" {
		c.Key = DefaultRedisKey
	}
}

// Validate checks mandatory fields for the selected backend.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendJSONL, BackendJSONLRotating, BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("runlog: path is required for %s", c.Backend)
		}
	case BackendRedis:
		if c.URL == "" {
			return fmt.Errorf("runlog: url is required for redis")
		}
	case BackendPostgres:
		if c.DSN == "" {
			return fmt.Errorf("runlog: dsn is required for postgres")
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownBackend, c.Backend)
	}
	return nil
}

// New opens the store described by cfg.
func New(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendJSONL:
		return NewJSONLStore(cfg.Path)
	case BackendJSONLRotating:
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.URL, cfg.Key)
	case BackendPostgres:
		return NewPostgresStore(ctx, cfg.DSN)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
}
