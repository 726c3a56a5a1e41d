package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStorage is the conversion journal: one row per reward released.
type PostgresStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type Conversion struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ChatID    int64     `db:"chat_id"`
	Username  string    `db:"username"`
	Keyword   string    `db:"keyword"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
}

type KeywordStat struct {
	Keyword     string    `db:"keyword"`
	Conversions int64     `db:"conversions"`
	Users       int64     `db:"users"`
	LastAt      time.Time `db:"last_at"`
}

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// SkipMigrations leaves the schema untouched on connect.
	SkipMigrations bool
}

func NewPostgresStorage(ctx context.Context, cfg Config, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err := conn.PingContext(ctx); err != nil {
				_ = conn.Close()
				return fmt.Errorf("ping: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if !cfg.SkipMigrations {
		if err := RunMigrations(ctx, db.DB, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", operation, err)
		}
	}

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		logger: logger,
	}, nil
}

func (s *PostgresStorage) RecordConversion(ctx context.Context, c Conversion) (int64, error) {
	const query = `
        INSERT INTO conversions (user_id, chat_id, username, keyword, url)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	var id int64
	if err := s.db.QueryRowxContext(ctx, query,
		c.UserID, c.ChatID, c.Username, c.Keyword, c.URL,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("storage.RecordConversion: %w", err)
	}
	return id, nil
}

func (s *PostgresStorage) ConversionStats(ctx context.Context) ([]KeywordStat, error) {
	const query = `
        SELECT keyword,
               COUNT(*)                AS conversions,
               COUNT(DISTINCT user_id) AS users,
               MAX(created_at)         AS last_at
        FROM conversions
        GROUP BY keyword
        ORDER BY conversions DESC, keyword`

	var stats []KeywordStat
	if err := s.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("storage.ConversionStats: %w", err)
	}
	return stats, nil
}

func (s *PostgresStorage) ListConversions(ctx context.Context) ([]Conversion, error) {
	const query = `
        SELECT id, user_id, chat_id, username, keyword, url, created_at
        FROM conversions
        ORDER BY created_at DESC`

	var conversions []Conversion
	if err := s.db.SelectContext(ctx, &conversions, query); err != nil {
		return nil, fmt.Errorf("storage.ListConversions: %w", err)
	}
	return conversions, nil
}

// Rollback reverts the most recent migration.
func (s *PostgresStorage) Rollback(ctx context.Context) error {
	return RollbackMigration(ctx, s.db.DB, s.logger)
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
