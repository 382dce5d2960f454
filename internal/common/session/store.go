// internal/common/session/store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"finquery/internal/common/config"
	"finquery/internal/models"
)

// Store keeps per-session conversation turns in Redis with a TTL, so a
// follow-up question can be resolved with prior context.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(cfg config.RedisConfig, ttl time.Duration) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &Store{client: rdb, ttl: ttl}
}

// NewStoreWithClient wraps an existing client (used by tests with miniredis).
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Ping tests the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// History returns the stored turns for a session, oldest first. A missing
// session yields an empty history, not an error.
func (s *Store) History(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	raw, err := s.client.Get(ctx, key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", sessionID, err)
	}

	var turns []models.ConversationTurn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", sessionID, err)
	}
	return turns, nil
}

// Append adds turns to a session and refreshes its TTL.
func (s *Store) Append(ctx context.Context, sessionID string, turns ...models.ConversationTurn) error {
	history, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, turns...)

	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store conversation %s: %w", sessionID, err)
	}
	return nil
}

// Clear removes a session's history.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, key(sessionID)).Err()
}

func key(sessionID string) string {
	return "conversation:" + sessionID
}
