package ticket

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

// LocalSequence is an in-process counter seeded once from the store.
// Safe for concurrent use within one process only.
type LocalSequence struct {
	store Store

	mu           sync.Mutex
	bootstrapped bool
	current      int
}

// NewLocalSequence creates a counter that bootstraps lazily on first Next.
func NewLocalSequence(store Store) *LocalSequence {
	return &LocalSequence{store: store}
}

// Next increments and returns the counter. A failed bootstrap is retried on
// the following call.
func (s *LocalSequence) Next(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bootstrapped {
		n, err := bootstrapNumber(ctx, s.store)
		if err != nil {
			return 0, err
		}
		s.current = n
		s.bootstrapped = true
	}

	s.current++
	return s.current, nil
}

// RedisSequence keeps the counter in Redis so every process sharing the key
// draws from one atomic INCR.
type RedisSequence struct {
	client *redis.Client
	key    string
	store  Store

	mu           sync.Mutex
	bootstrapped bool
}

// NewRedisSequence creates a sequence stored under key.
func NewRedisSequence(client *redis.Client, key string, store Store) *RedisSequence {
	return &RedisSequence{
		client: client,
		key:    key,
		store:  store,
	}
}

// Next seeds the key from the store if it does not exist yet, then INCRs it.
func (s *RedisSequence) Next(ctx context.Context) (int, error) {
	if err := s.ensureBootstrapped(ctx); err != nil {
		return 0, err
	}

	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to incr %s: %w", s.key, err)
	}
	return int(n), nil
}

func (s *RedisSequence) ensureBootstrapped(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bootstrapped {
		return nil
	}

	n, err := bootstrapNumber(ctx, s.store)
	if err != nil {
		return err
	}
	// SETNX: another process may have seeded (and advanced) the key already.
	if err := s.client.SetNX(ctx, s.key, n, 0).Err(); err != nil {
		return fmt.Errorf("failed to seed %s: %w", s.key, err)
	}

	s.bootstrapped = true
	return nil
}
