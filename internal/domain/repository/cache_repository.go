package repository

import (
	"context"
	"time"

	"github.com/places-service/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу (nil, nil при промахе)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// InvalidateSearch удаляет все закешированные результаты поиска
	InvalidateSearch(ctx context.Context) error

	// GetStats получает статистику из кеша (nil, nil при промахе)
	GetStats(ctx context.Context) (*domain.PlaceStats, error)

	// SetStats сохраняет статистику в кеше
	SetStats(ctx context.Context, stats *domain.PlaceStats, ttl time.Duration) error
}
