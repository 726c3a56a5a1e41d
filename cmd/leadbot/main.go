package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"leadbot/internal/bot"
	"leadbot/internal/config"
	"leadbot/internal/session"
	"leadbot/internal/storage"
	"leadbot/pkg/logger"
	"leadbot/pkg/redis"
)

// ENTRY POINT

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	// Загрузка конфигурации
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Инициализация логгера
	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Обработка сигналов завершения
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if opts.migrateDown {
		if err := migrateDown(ctx, cfg, zapLogger); err != nil {
			zapLogger.Fatal("Failed to roll back migration", zap.Error(err))
		}
		return
	}

	// Хранилище сессий
	var store session.Store
	switch cfg.SessionBackend {
	case config.BackendRedis:
		redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.SessionTTL)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx, zapLogger); err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
	default:
		zapLogger.Warn("Using in-memory sessions, state is lost on restart")
		store = session.NewMemoryStore()
	}

	// Журнал выдач (опционально)
	var journal bot.Journal
	if cfg.DatabaseURL != "" {
		pgStorage, err := storage.NewPostgresStorage(ctx, storage.Config{
			DSN:          cfg.DatabaseURL,
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		}, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
		}
		defer pgStorage.Close()
		journal = pgStorage
	}

	zapLogger.Info("Lead magnets loaded", zap.Int("keywords", len(cfg.Magnets)))

	// Создание бота
	tgBot, err := bot.New(cfg, store, journal, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Запуск бота
	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}

func migrateDown(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for -migrate-down")
	}

	pgStorage, err := storage.NewPostgresStorage(ctx, storage.Config{
		DSN:            cfg.DatabaseURL,
		SkipMigrations: true,
	}, logger)
	if err != nil {
		return err
	}
	defer pgStorage.Close()

	return pgStorage.Rollback(ctx)
}
