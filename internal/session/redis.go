package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisURL = "redis://localhost:6379"
	keyPrefix       = "diagramd:session:"
)

// RedisStore keeps entries in Redis so several replicas share sessions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to url and pings it. ttl <= 0 stores without expiry.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	if url == "" {
		url = defaultRedisURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(key string) string { return keyPrefix + NormalizeKey(key) }

func (s *RedisStore) Put(ctx context.Context, key string, e Entry) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("session store unavailable")
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, redisKey(key), payload, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	if s == nil || s.client == nil {
		return Entry{}, fmt.Errorf("session store unavailable")
	}
	b, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, fmt.Errorf("decode session: %w", err)
	}
	return e, nil
}

func (s *RedisStore) Kind() string { return "redis" }

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Ping checks the Redis connection; /readyz uses it.
func (s *RedisStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("session store unavailable")
	}
	return s.client.Ping(ctx).Err()
}
