// Package cache реализует подключение к redis и счётчики неудачных попыток входа.
// Состояние пользователей и задач здесь не кэшируется: каждый запрос
// перечитывает данные из хранилища.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/taskkeeper/internal/config"
)

// Cache инкапсулирует клиент redis.
type Cache struct {
	DB *redis.Client
}

// InitServer создаёт клиент redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{DB: db}, nil
}

// loginAttemptsKey ключ счётчика неудачных входов для username.
func loginAttemptsKey(username string) string {
	return fmt.Sprintf("login_attempts:%s", username)
}

// FailCount возвращает число неудачных попыток входа для username за текущее окно.
func (c *Cache) FailCount(ctx context.Context, username string) (int, error) {
	const op = "cache.FailCount"
	val, err := c.DB.Get(ctx, loginAttemptsKey(username)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

// RegisterFailure увеличивает счётчик неудачных попыток входа.
// Окно задаётся TTL ключа и продлевается только при первой неудаче.
func (c *Cache) RegisterFailure(ctx context.Context, username string, window time.Duration) error {
	const op = "cache.RegisterFailure"
	key := loginAttemptsKey(username)
	count, err := c.DB.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 1 {
		if err := c.DB.Expire(ctx, key, window).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ResetFailures сбрасывает счётчик после успешного входа.
func (c *Cache) ResetFailures(ctx context.Context, username string) error {
	const op = "cache.ResetFailures"
	if err := c.DB.Del(ctx, loginAttemptsKey(username)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
