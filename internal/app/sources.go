package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/config"
	"github.com/Freeeeeet/slot_finder/internal/repository"
	"github.com/Freeeeeet/slot_finder/internal/repository/base"
	"github.com/Freeeeeet/slot_finder/internal/service"
)

// NewEventSource собирает источник событий по конфигу.
// Возвращаемая функция закрывает пул БД и клиента Redis, если они открывались.
func NewEventSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.EventSource, func(), error) {
	var (
		source  repository.EventLoader
		closers []func()
	)

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.EventsSource {
	case config.EventsSourceFile:
		source = repository.NewFileEventRepository(cfg.EventsFile)
	case config.EventsSourceICS:
		source = repository.NewICSEventRepository(cfg.ICSFile)
	case config.EventsSourcePostgres:
		pool, err := base.NewPool(ctx, cfg.GetDBDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		closers = append(closers, pool.Close)
		logger.Info("✅ Connected to database")

		migrator, err := NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		errMigrate := migrator.Run(ctx)
		_ = migrator.Close()
		if errMigrate != nil {
			closeAll()
			return nil, nil, errMigrate
		}

		eventRepo := repository.NewEventRepository(pool)
		if count, errCount := eventRepo.CountMeetings(ctx); errCount != nil {
			logger.Warn("⚠️ Failed to count meetings", zap.Error(errCount))
		} else {
			logger.Info("📅 Meetings in database", zap.Int64("count", count))
		}
		source = eventRepo
	default:
		return nil, nil, fmt.Errorf("unknown events source %q", cfg.EventsSource)
	}

	if !cfg.CacheEnabled() {
		logger.Info("Events source ready", zap.String("source", source.Name()))
		return source, closeAll, nil
	}

	rdb, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		// Без кэша работаем напрямую с источником
		logger.Warn("⚠️ Redis unavailable, events cache disabled", zap.Error(err))
		return source, closeAll, nil
	}
	closers = append(closers, func() { _ = rdb.Close() })

	cached := repository.NewCachedEventSource(source, rdb, cfg.EventsCacheTTL, logger)
	logger.Info("✅ Events cache enabled",
		zap.String("source", cached.Name()),
		zap.Duration("ttl", cfg.EventsCacheTTL))

	return cached, closeAll, nil
}
