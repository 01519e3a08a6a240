package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"medipin-ocr/internal/domain/scans"
)

const DefaultKeyPrefix = "medipin:ocr:"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient arma el cliente; no hace ping.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Cache guarda la respuesta completa como JSON bajo prefix+hash.
type Cache struct {
	c      *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCache(c *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Cache{c: c, prefix: prefix, ttl: ttl}
}

func (r *Cache) Get(ctx context.Context, hash string) (scans.CacheEntry, bool, error) {
	raw, err := r.c.Get(ctx, r.key(hash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return scans.CacheEntry{}, false, nil
		}
		return scans.CacheEntry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var e scans.CacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return scans.CacheEntry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return e, true, nil
}

func (r *Cache) Set(ctx context.Context, hash string, entry scans.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := r.c.Set(ctx, r.key(hash), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Cache) key(hash string) string {
	return r.prefix + hash
}
