package store

import (
	"errors"
	"strings"
)

const (
	EngineJSON   = "json"
	EngineSQLite = "sqlite"
	EngineRedis  = "redis"
	EngineMemory = "memory"
)

type Options struct {
	Path        string
	RedisAddr   string
	RedisPrefix string
}

func NewByEngine(engine string, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSQLite:
		return NewSQLiteStore(opts.Path)
	case EngineJSON:
		return NewJSONStore(opts.Path)
	case EngineRedis:
		return NewRedisStore(opts.RedisAddr, opts.RedisPrefix)
	case EngineMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.New("unsupported store engine: " + engine)
	}
}
