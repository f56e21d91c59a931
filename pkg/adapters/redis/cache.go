package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/switchboard/pkg/value"
	backend "github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "switchboard:result:"
	DefaultTTL    = 10 * time.Minute
)

// Cache implements ports.ResultCache using Redis strings holding JSON.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = prefix }
}

// WithTTL sets the expiry of stored results. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *Cache {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{client: client, prefix: DefaultPrefix, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key(k string) string { return c.prefix + k }

// Get loads and decodes the result stored under key.
func (c *Cache) Get(ctx context.Context, key string) (value.Value, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, backend.Nil) {
		return value.Null(), false, nil
	}
	if err != nil {
		return value.Null(), false, fmt.Errorf("redis get: %w", err)
	}

	var v value.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return value.Null(), false, fmt.Errorf("decode cached result: %w", err)
	}
	return v, true, nil
}

// Set encodes v and stores it with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, v value.Value) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}
