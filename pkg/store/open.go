package store

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/rangedeck/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// DefaultSQLiteFile is the database name used under Config.Dir.
const DefaultSQLiteFile = "layouts.sqlite"

// Backends lists the accepted backend names.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`

	// Dir is the root of the file backend and the default location of the
	// SQLite database.
	Dir string `toml:"dir"`

	SQLitePath string `toml:"sqlite_path"`

	RedisURL    string `toml:"redis_url"`
	RedisPrefix string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Open builds the backend named by cfg.Backend. An empty name selects the
// file backend.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryBackend(), nil
	case BackendFile, "":
		if cfg.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file store needs a directory")
		}
		b, err := NewFileBackend(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open file store")
		}
		return b, nil
	case BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			if cfg.Dir == "" {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "sqlite store needs a path or directory")
			}
			path = filepath.Join(cfg.Dir, DefaultSQLiteFile)
		}
		b, err := NewSQLiteBackend(ctx, path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open sqlite store")
		}
		return b, nil
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "redis store needs redis_url")
		}
		b, err := NewRedisBackend(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open redis store")
		}
		return b, nil
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store needs mongo_uri")
		}
		b, err := NewMongoBackend(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open mongo store")
		}
		return b, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q (want one of %v)", cfg.Backend, Backends)
	}
}
