package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"onwserver/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "game:"

// RedisStore keeps sessions as JSON values in Redis with a TTL, so a
// fleet of server processes can share them and stale games expire on
// their own.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore wraps a connected Redis client.
func NewRedisStore(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, logger: logger}
}

func (s *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}

// Get fetches and decodes a session, returning nil when the key is
// missing or expired.
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Error("Failed to decode session", zap.String("gameID", id), zap.Error(err))
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Set encodes and stores the session, refreshing its TTL.
func (s *RedisStore) Set(ctx context.Context, id string, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// UpdateState rewrites the session with a new game state.
func (s *RedisStore) UpdateState(ctx context.Context, id string, state *models.GameState) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoSession
	}
	session.State = state
	return s.Set(ctx, id, session)
}

// AdvanceStep increments the cursor and rewrites the session. The
// read-modify-write is safe because the orchestrator serializes steps
// per game id.
func (s *RedisStore) AdvanceStep(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}
	session.StepIndex++
	session.Completed = session.StepIndex >= len(session.Steps)
	if err := s.Set(ctx, id, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session key.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
