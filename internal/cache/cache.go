// Package cache хранит производные данные (сводки рейтинга, список категорий)
// в памяти процесса или в Redis.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache хранилище значений с TTL. Значения сериализуются в JSON.
type Cache interface {
	// Get читает значение в dest. Возвращает false, если ключа нет или он истёк.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// GetOrSet читает значение из кеша или вычисляет его через fn и сохраняет.
// Ошибки кеша не мешают вычислению.
func GetOrSet[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	if c != nil {
		if ok, err := c.Get(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	value, err := fn()
	if err != nil {
		return value, err
	}

	if c != nil {
		_ = c.Set(ctx, key, value, ttl)
	}
	return value, nil
}

// Invalidate сбрасывает ключи по префиксу, если кеш настроен.
func Invalidate(ctx context.Context, c Cache, prefix string) error {
	if c == nil {
		return nil
	}
	return c.DeleteByPrefix(ctx, prefix)
}

// Генераторы ключей
const categoriesPrefix = "categories:"

func CategoriesKey() string {
	return categoriesPrefix + "all"
}

func CategoriesPrefix() string {
	return categoriesPrefix
}

func RatingSummaryKey(userID uuid.UUID) string {
	return "rating:" + userID.String()
}
