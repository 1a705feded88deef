package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OAuthStateTTL is how long a LINE login state stays valid
const OAuthStateTTL = 10 * time.Minute

// StateStore keeps single-use OAuth state values
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume deletes the state and reports whether it existed
	Consume(ctx context.Context, state string) (bool, error)
}

const stateKeyPrefix = "oauth:line:state:"

// RedisStateStore shares OAuth state between instances through Redis
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore connects to a Redis server
func NewRedisStateStore(addr, password string, db int) *RedisStateStore {
	return &RedisStateStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewRedisStateStoreWithClient wraps an existing client
func NewRedisStateStoreWithClient(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Ping checks the connection
func (s *RedisStateStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Save stores the state with an expiry
func (s *RedisStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, stateKeyPrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

// Consume atomically reads and deletes the state
func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	err := s.client.GetDel(ctx, stateKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return true, nil
}

// Close releases the connection pool
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

// MemoryStateStore keeps state in process; only suitable for one instance
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStateStore creates an empty in-process store
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{entries: make(map[string]time.Time), now: time.Now}
}

// Save stores the state with an expiry
func (s *MemoryStateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.entries {
		if now.After(exp) {
			delete(s.entries, k)
		}
	}
	s.entries[state] = now.Add(ttl)
	return nil
}

// Consume deletes the state and reports whether it was present and unexpired
func (s *MemoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[state]
	if !ok {
		return false, nil
	}
	delete(s.entries, state)
	return !s.now().After(exp), nil
}
