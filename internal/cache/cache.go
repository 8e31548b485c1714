package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indica que la clave no existe o expiró.
var ErrCacheMiss = errors.New("cache: clave no encontrada")

// Cache es el contrato mínimo de caché de lectura del catálogo. Las
// implementaciones serializan los valores como JSON.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
