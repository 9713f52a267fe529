package kv

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/LoohanZinho/joraps/errors"
)

// RedisConfig configures the Redis-backed Store.
type RedisConfig struct {
	// Addr is the host:port of the Redis server. Empty disables Redis and
	// the file store is used instead.
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	// KeyPrefix namespaces every key, so one server can hold several
	// deployments.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// ApplyDefaults fills in the default key prefix.
func (c *RedisConfig) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "joraps:"
	}
}

// RedisStore is a Store backed by Redis. Values are stored as JSON so the
// data is interchangeable with FileStore.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the server responds.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	cfg.ApplyDefaults()
	if cfg.Addr == "" {
		return nil, errors.Storage(fmt.Errorf("kv: redis address is required"))
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Storage(fmt.Errorf("kv: redis ping %s: %w", cfg.Addr, err))
	}
	return &RedisStore{rdb: rdb, prefix: cfg.KeyPrefix}, nil
}

// Get decodes the value for key into out.
func (s *RedisStore) Get(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Storage(fmt.Errorf("kv: read %s: %w", key, err))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.Storage(fmt.Errorf("kv: decode %s: %w", key, err))
	}
	return true, nil
}

// Set encodes value and stores it under key. Values do not expire;
// history and preferences are durable state.
func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Storage(fmt.Errorf("kv: encode %s: %w", key, err))
	}
	if err := s.rdb.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return errors.Storage(fmt.Errorf("kv: write %s: %w", key, err))
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Storage(fmt.Errorf("kv: delete %s: %w", key, err))
	}
	return nil
}

// Close releases the client connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

var _ Store = (*RedisStore)(nil)
