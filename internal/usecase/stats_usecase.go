package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
)

// StatsUseCase - use case для статистики по загруженным местам
type StatsUseCase struct {
	placeRepo repository.PlaceRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewStatsUseCase - создание нового StatsUseCase
func NewStatsUseCase(
	placeRepo repository.PlaceRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *StatsUseCase {
	return &StatsUseCase{
		placeRepo: placeRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// GetStatistics возвращает агрегированную статистику, кеш с TTL.
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.PlaceStats, error) {
	if cached, err := uc.cacheRepo.GetStats(ctx); err == nil && cached != nil {
		return cached, nil
	}

	stats, err := uc.placeRepo.GetStats(ctx)
	if err != nil {
		uc.logger.Error("Failed to get place statistics", zap.Error(err))
		return nil, err
	}

	if err := uc.cacheRepo.SetStats(ctx, stats, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache place statistics", zap.Error(err))
	}

	return stats, nil
}
