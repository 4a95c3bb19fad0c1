package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/model"
)

const eventsCacheKey = "slot_finder:events"

// EventLoader источник событий, который можно закэшировать
type EventLoader interface {
	LoadEvents(ctx context.Context) ([]model.Event, error)
	Name() string
}

// CachedEventSource read-through кэш событий в Redis.
// Ошибки Redis не ломают загрузку: идём напрямую в источник.
type CachedEventSource struct {
	source EventLoader
	rdb    *redis.Client
	ttl    time.Duration
	key    string
	logger *zap.Logger
}

func NewCachedEventSource(source EventLoader, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedEventSource {
	return &CachedEventSource{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		key:    eventsCacheKey + ":" + source.Name(),
		logger: logger,
	}
}

// NewRedisClient создаёт клиента и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return rdb, nil
}

func (c *CachedEventSource) Name() string {
	return "redis(" + c.source.Name() + ")"
}

func (c *CachedEventSource) LoadEvents(ctx context.Context) ([]model.Event, error) {
	cached, err := c.rdb.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var events []model.Event
		errDecode := json.Unmarshal(cached, &events)
		if errDecode == nil {
			c.logger.Debug("📦 Events loaded from cache", zap.String("key", c.key), zap.Int("events", len(events)))
			return events, nil
		}
		c.logger.Warn("⚠️ Broken events cache entry", zap.String("key", c.key), zap.Error(errDecode))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("⚠️ Redis unavailable, loading events from source", zap.Error(err))
	}

	events, err := c.source.LoadEvents(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("encode events: %w", err)
	}

	if err := c.rdb.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("⚠️ Failed to cache events", zap.String("key", c.key), zap.Error(err))
	}

	return events, nil
}

// Invalidate сбрасывает кэш, следующая загрузка пойдёт в источник
func (c *CachedEventSource) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("invalidate events cache: %w", err)
	}
	return nil
}
