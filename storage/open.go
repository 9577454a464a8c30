package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type Config struct {
	// Driver is one of file, sqlite, redis, memory
	Driver       string
	DataDir      string
	SQLitePath   string
	RedisAddress string
	RedisPrefix  string
}

// Open creates the backend selected by config.Driver, file when empty
func Open(config Config) (Backend, error) {
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	switch config.Driver {
	case "", "file":
		return NewFileBackend(dataDir), nil
	case "sqlite":
		path := config.SQLitePath
		if path == "" {
			path = filepath.Join(dataDir, "agora.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrapf(err, "creating %s", filepath.Dir(path))
		}
		return NewSQLiteBackend(path)
	case "redis":
		if config.RedisAddress == "" {
			return nil, errors.New("storage.redis.address is required for the redis driver")
		}
		return NewRedisBackend(config.RedisAddress, config.RedisPrefix)
	case "memory":
		return NewMemoryBackend(), nil
	}
	return nil, errors.Errorf("unknown storage driver %q", config.Driver)
}
