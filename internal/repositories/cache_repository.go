package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss возвращается Get, когда ключа нет в кэше.
var ErrCacheMiss = errors.New("ключ не найден в кэше")

// CacheRepositoryInterface — key-value кэш с TTL. Используется сервисом
// авторизации для allow-list'а refresh-токенов.
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}
