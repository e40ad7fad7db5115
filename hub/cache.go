package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MappingCache stores provider mappings per model id.
// Implementations must be safe for concurrent use.
type MappingCache interface {
	// Get returns the cached mappings and whether an entry was found.
	Get(ctx context.Context, modelID string) ([]ProviderMapping, bool, error)
	Set(ctx context.Context, modelID string, mappings []ProviderMapping) error
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]ProviderMapping, bool, error) { return nil, false, nil }
func (noCache) Set(context.Context, string, []ProviderMapping) error        { return nil }

type memoryEntry struct {
	mappings []ProviderMapping
	expires  time.Time
}

// MemoryCache is an in-process MappingCache with a fixed TTL.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates a memory cache. A non-positive ttl keeps entries
// forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements MappingCache.
func (c *MemoryCache) Get(_ context.Context, modelID string) ([]ProviderMapping, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[modelID]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, modelID)
		return nil, false, nil
	}
	return append([]ProviderMapping(nil), e.mappings...), true, nil
}

// Set implements MappingCache.
func (c *MemoryCache) Set(_ context.Context, modelID string, mappings []ProviderMapping) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := memoryEntry{mappings: append([]ProviderMapping(nil), mappings...)}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[modelID] = e
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RedisCacheConfig describes the Redis connection for RedisCache.
type RedisCacheConfig struct {
	Address  string
	Password string
	DB       int

	// Prefix is prepended to every key. Default: hfgo:mapping:
	Prefix string

	// TTL is the expiry of each entry. Default: DefaultCacheTTL.
	TTL time.Duration
}

// DefaultRedisPrefix is the key prefix used when none is configured.
const DefaultRedisPrefix = "hfgo:mapping:"

// RedisCache shares provider mappings across processes through Redis.
// Values are JSON arrays of ProviderMapping.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to Redis and checks the connection.
func NewRedisCache(ctx context.Context, cfg RedisCacheConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisCacheFromClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Key returns the Redis key for modelID.
func (c *RedisCache) Key(modelID string) string {
	return c.prefix + modelID
}

// Get implements MappingCache.
func (c *RedisCache) Get(ctx context.Context, modelID string) ([]ProviderMapping, bool, error) {
	raw, err := c.client.Get(ctx, c.Key(modelID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get mapping: %w", err)
	}

	var mappings []ProviderMapping
	if err := json.Unmarshal(raw, &mappings); err != nil {
		return nil, false, fmt.Errorf("decode cached mapping: %w", err)
	}
	return mappings, true, nil
}

// Set implements MappingCache.
func (c *RedisCache) Set(ctx context.Context, modelID string, mappings []ProviderMapping) error {
	raw, err := json.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(modelID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set mapping: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
