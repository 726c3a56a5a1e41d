package session

import (
	"context"

	"leadbot/internal/flow"
)

// Store persists flow sessions keyed by Telegram user id.
type Store interface {
	Get(ctx context.Context, userID int64) (flow.Session, bool, error)
	Save(ctx context.Context, userID int64, sess flow.Session) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
