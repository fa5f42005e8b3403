package session

import (
	"context"
	"fmt"
	"time"
)

// StoreType selects a session backend.
type StoreType string

const (
	StoreMemory StoreType = "memory"
	StoreRedis  StoreType = "redis"
)

// Config carries backend selection plus the Redis settings used when the
// redis backend is chosen.
type Config struct {
	Type StoreType

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// NewStore builds the configured session backend.
func NewStore(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case StoreMemory, "":
		return NewMemoryStore(), nil
	case StoreRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
	default:
		return nil, fmt.Errorf("session: unknown store type %q", cfg.Type)
	}
}
