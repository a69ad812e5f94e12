package repository

import (
	"context"

	"github.com/places-service/internal/domain"
)

// PlaceRepository определяет методы для работы с местами
type PlaceRepository interface {
	// InsertBatch вставляет все места одним multi-row INSERT
	InsertBatch(ctx context.Context, places []*domain.Place) error

	// SearchByText выполняет полнотекстовый поиск по name+description,
	// сортировка по name ASC. limit <= 0 означает "без ограничения".
	SearchByText(ctx context.Context, words string, skip, limit int) ([]*domain.Place, error)

	// GetWithinRadius возвращает места в радиусе radiusMeters от точки,
	// отсортированные по возрастанию дистанции (в метрах)
	GetWithinRadius(ctx context.Context, lon, lat, radiusMeters float64) ([]*domain.PlaceWithDistance, error)

	// GetStats возвращает агрегированную статистику по местам
	GetStats(ctx context.Context) (*domain.PlaceStats, error)
}
