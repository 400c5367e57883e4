package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a shared backend for deployments running more than one bot
// replica. Values are JSON. Keys are namespaced so dialogue state and pending
// checkins can share one database.
type Redis[T any] struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
	ctx       context.Context
}

type RedisOptions struct {
	Client    redis.UniversalClient
	Namespace string
	// TTL bounds how long an abandoned record survives. Zero means no expiry;
	// the owning component still applies its own deadline logic.
	TTL time.Duration
}

func NewRedis[T any](opts RedisOptions) (*Redis[T], error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	return &Redis[T]{
		client:    opts.Client,
		namespace: opts.Namespace,
		ttl:       opts.TTL,
		ctx:       context.Background(),
	}, nil
}

func (s *Redis[T]) key(k string) string {
	return s.namespace + ":" + k
}

func (s *Redis[T]) Get(key string) (T, bool) {
	var zero T
	raw, err := s.client.Get(s.ctx, s.key(key)).Bytes()
	if err != nil {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false
	}
	return out, true
}

func (s *Redis[T]) Set(key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("sessionstore marshal %s: %w", key, err)
	}
	if err := s.client.Set(s.ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("sessionstore set %s: %w", key, err)
	}
	return nil
}

func (s *Redis[T]) Delete(key string) error {
	if err := s.client.Del(s.ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("sessionstore delete %s: %w", key, err)
	}
	return nil
}

func (s *Redis[T]) ForEach(fn func(key string, value T) bool) error {
	prefix := s.namespace + ":"
	iter := s.client.Scan(s.ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		full := iter.Val()
		raw, err := s.client.Get(s.ctx, full).Bytes()
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		if !fn(full[len(prefix):], v) {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("sessionstore scan %s: %w", s.namespace, err)
	}
	return nil
}

func (s *Redis[T]) Len() int {
	prefix := s.namespace + ":"
	n := 0
	iter := s.client.Scan(s.ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		n++
	}
	return n
}
