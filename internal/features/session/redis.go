package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "giveaway-bot-backend/internal/common/errors"
)

const sessionTTL = 24 * time.Hour

// RedisStore shares dialog state between processes.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*State, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError("get session", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, apperrors.NewStorageError("get session", err)
	}
	return &state, nil
}

func (s *RedisStore) Set(ctx context.Context, userID int64, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return apperrors.NewStorageError("set session", err)
	}
	if err := s.client.Set(ctx, sessionKey(userID), data, sessionTTL).Err(); err != nil {
		return apperrors.NewStorageError("set session", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.NewStorageError("clear session", err)
	}
	return nil
}
