package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github/itish2003/neuronova/models"
)

// RedisStore keeps each transcript in a Redis list, one JSON entry per element,
// so concurrent appends from several server replicas keep their order.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisOption func(*RedisStore)

// WithTTL expires a transcript this long after its last append. Zero disables expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. Default is "neuronova".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: "neuronova",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, entries ...models.ChatEntry) error {
	if sessionID == "" {
		return ErrInvalidSessionID
	}
	if len(entries) == 0 {
		return nil
	}

	vals := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal chat entry: %w", err)
		}
		vals = append(vals, data)
	}

	key := s.transcriptKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, vals...)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Entries(ctx context.Context, sessionID string) ([]models.ChatEntry, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	vals, err := s.client.LRange(ctx, s.transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange failed: %w", err)
	}

	entries := make([]models.ChatEntry, 0, len(vals))
	for i, val := range vals {
		var entry models.ChatEntry
		if err := json.Unmarshal([]byte(val), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RedisStore) transcriptKey(sessionID string) string {
	return s.prefix + ":transcript:" + sessionID
}
