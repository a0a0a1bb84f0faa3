package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss - ключа нет в кеше или он истек
var ErrMiss = errors.New("cache miss")

// Cache - байтовый кеш с TTL
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
