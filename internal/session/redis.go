package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"showroom/internal/core"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps edit sessions as JSON values with TTL, for setups
// where several admin instances share session state.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{client: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (core.EditState, error) {
	raw, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return core.EditState{}, ErrNotFound
	}
	if err != nil {
		return core.EditState{}, fmt.Errorf("redis get: %w", err)
	}

	var state core.EditState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return core.EditState{}, fmt.Errorf("decode session: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, state core.EditState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func key(id string) string {
	return "edit-session:" + id
}
