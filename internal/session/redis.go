package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadbot/internal/flow"
	"leadbot/pkg/redis"
)

// KV is the subset of the redis client the store needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

var _ KV = (*redis.Client)(nil)

// RedisStore keeps sessions as JSON documents with a sliding TTL.
type RedisStore struct {
	kv  KV
	ttl time.Duration
}

func NewRedisStore(kv KV, ttl time.Duration) *RedisStore {
	return &RedisStore{
		kv:  kv,
		ttl: ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (flow.Session, bool, error) {
	data, err := s.kv.Get(ctx, buildSessionKey(userID))
	if errors.Is(err, redis.ErrNotFound) {
		return flow.Session{}, false, nil
	}
	if err != nil {
		return flow.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	var sess flow.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return flow.Session{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, true, nil
}

func (s *RedisStore) Save(ctx context.Context, userID int64, sess flow.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.kv.Set(ctx, buildSessionKey(userID), data, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func buildSessionKey(userID int64) string {
	return fmt.Sprintf("leadbot:session:%d", userID)
}
