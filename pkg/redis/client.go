package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps go-redis with the small surface the services need plus an
// environment-aware key builder.
type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
	log        *zap.Logger
}

// Cache key patterns (prefixed by the KeyBuilder).
const (
	KeyLookupStatus = "lookup:status"
	KeyLookupJenis  = "lookup:jenis"
	KeyKegiatanAll  = "kegiatan:all"
	KeyDraft        = "draft:%s"
	KeyTokenRevoked = "auth:revoked:%s"
)

// TTLs.
const (
	// Lookup tables are admin-edited rarely.
	TTLLookup = 10 * time.Minute
	// The converted collection is rebuilt on every fetch cycle; a short TTL
	// keeps the list near-fresh without hammering the upstream API.
	TTLKegiatan = time.Minute
	// Drafts survive a process restart but not a workday.
	TTLDraft = 2 * time.Hour
)

// NewClient connects to Redis and verifies the connection.
func NewClient(redisURL, environment string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment), log: log}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Get retrieves a value. A missing key returns redis.Nil as the error,
// matching go-redis semantics.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		c.log.Warn("redis_get", zap.String("key", key), zap.Error(err))
	}
	return val, err
}

// Set stores a value with a TTL.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	err := c.rdb.Set(ctx, key, value, ttl).Err()
	if err != nil {
		c.log.Warn("redis_set", zap.String("key", key), zap.Error(err))
	}
	return err
}

// SetNX stores a value only if the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		c.log.Warn("redis_setnx", zap.String("key", key), zap.Error(err))
	}
	return ok, err
}

// Delete removes keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := c.rdb.Del(ctx, keys...).Err()
	if err != nil {
		c.log.Warn("redis_del", zap.Strings("keys", keys), zap.Error(err))
	}
	return err
}

// Exists reports how many of the given keys exist.
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	return c.rdb.Exists(ctx, keys...).Result()
}

// IsNil reports whether err is the go-redis missing-key sentinel.
func IsNil(err error) bool {
	return err == redis.Nil
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
