package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/places-service/internal/pkg/errors"
	"github.com/places-service/internal/pkg/kml"
	"github.com/places-service/internal/pkg/utils"
	"github.com/places-service/internal/usecase/dto"
)

// PlaceUseCase - use case для импорта и поиска мест
type PlaceUseCase struct {
	placeRepo      repository.PlaceRepository
	cacheRepo      repository.CacheRepository
	streamRepo     repository.StreamRepository
	logger         *zap.Logger
	searchCacheTTL time.Duration
	defaultRadius  float64
}

// NewPlaceUseCase - создание нового PlaceUseCase
func NewPlaceUseCase(
	placeRepo repository.PlaceRepository,
	cacheRepo repository.CacheRepository,
	streamRepo repository.StreamRepository,
	logger *zap.Logger,
	searchCacheTTL time.Duration,
	defaultRadiusMeters float64,
) *PlaceUseCase {
	return &PlaceUseCase{
		placeRepo:      placeRepo,
		cacheRepo:      cacheRepo,
		streamRepo:     streamRepo,
		logger:         logger,
		searchCacheTTL: searchCacheTTL,
		defaultRadius:  defaultRadiusMeters,
	}
}

// ImportFromKML разбирает KML-документ и сохраняет все placemark'и одним
// батчем. Некорректный документ отклоняется целиком, частичных вставок нет.
func (uc *PlaceUseCase) ImportFromKML(ctx context.Context, data []byte) (*dto.UploadResponse, error) {
	if len(data) == 0 {
		return nil, errors.ErrEmptyUpload
	}

	placemarks, err := kml.Parse(data)
	if err != nil {
		uc.logger.Warn("Rejected KML upload", zap.Error(err))
		return nil, errors.ErrMalformedKML
	}

	places := make([]*domain.Place, 0, len(placemarks))
	for _, pm := range placemarks {
		places = append(places, &domain.Place{
			Name:        pm.Name,
			Description: pm.Description,
			Geo:         domain.NewGeoPoint(pm.Lon, pm.Lat),
		})
	}

	if err := uc.placeRepo.InsertBatch(ctx, places); err != nil {
		uc.logger.Error("Failed to insert imported places", zap.Error(err))
		return nil, err
	}

	batchID := uuid.New()
	uc.logger.Info("Places imported",
		zap.String("batch_id", batchID.String()),
		zap.Int("count", len(places)),
	)

	// Кеш и событие - best-effort: импорт уже прошёл
	if err := uc.cacheRepo.InvalidateSearch(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate search cache after import", zap.Error(err))
	}

	event := domain.ImportCompletedEvent{
		BatchID:    batchID,
		Count:      len(places),
		ImportedAt: time.Now().UTC(),
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamPlacesImported, event); err != nil {
		uc.logger.Warn("Failed to publish import event", zap.Error(err))
	}

	return &dto.UploadResponse{Status: dto.StatusOK}, nil
}

// Search - полнотекстовый поиск мест по name+description.
// Выдача отсортирована по name ASC, skip/limit - простое окно по ней.
func (uc *PlaceUseCase) Search(ctx context.Context, req dto.SearchPlacesRequest) ([]*domain.Place, error) {
	if req.SearchWords == "" {
		return nil, errors.ErrEmptySearch
	}

	cacheKey := fmt.Sprintf("search:%s:%d:%d", req.SearchWords, req.Skip, req.Limit)

	if data, err := uc.cacheRepo.Get(ctx, cacheKey); err == nil && data != nil {
		var cached []*domain.Place
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		uc.logger.Warn("Failed to unmarshal cached search result", zap.String("key", cacheKey))
	}

	places, err := uc.placeRepo.SearchByText(ctx, req.SearchWords, req.Skip, req.Limit)
	if err != nil {
		uc.logger.Error("Failed to search places", zap.String("words", req.SearchWords), zap.Error(err))
		return nil, err
	}

	if data, err := json.Marshal(places); err == nil {
		if err := uc.cacheRepo.Set(ctx, cacheKey, data, uc.searchCacheTTL); err != nil {
			uc.logger.Warn("Failed to cache search result", zap.String("key", cacheKey))
		}
	}

	return places, nil
}

// Around - поиск мест в радиусе от точки, по возрастанию дистанции (в метрах).
// Радиус - включительная граница максимальной дистанции.
func (uc *PlaceUseCase) Around(ctx context.Context, req dto.PlacesAroundRequest) ([]*domain.PlaceWithDistance, error) {
	if len(req.Coordinates) != 2 {
		return nil, errors.ErrInvalidCoordinates
	}
	lon, lat := req.Coordinates[0], req.Coordinates[1]
	if !utils.ValidateCoordinates(lon, lat) {
		return nil, errors.ErrInvalidCoordinates
	}

	radius := uc.defaultRadius
	if req.Radius != nil {
		radius = *req.Radius
	}
	if !utils.ValidateRadius(radius) {
		return nil, errors.ErrInvalidRadius
	}

	places, err := uc.placeRepo.GetWithinRadius(ctx, lon, lat, radius)
	if err != nil {
		uc.logger.Error("Failed to get places around point",
			zap.Float64("lon", lon),
			zap.Float64("lat", lat),
			zap.Float64("radius_m", radius),
			zap.Error(err),
		)
		return nil, err
	}

	return places, nil
}
