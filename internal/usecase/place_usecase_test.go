package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/places-service/internal/domain"
	apperrors "github.com/places-service/internal/pkg/errors"
	"github.com/places-service/internal/usecase"
	"github.com/places-service/internal/usecase/dto"
)

// MockPlaceRepository is a mock of PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) InsertBatch(ctx context.Context, places []*domain.Place) error {
	args := m.Called(ctx, places)
	return args.Error(0)
}

func (m *MockPlaceRepository) SearchByText(ctx context.Context, words string, skip, limit int) ([]*domain.Place, error) {
	args := m.Called(ctx, words, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) GetWithinRadius(ctx context.Context, lon, lat, radiusMeters float64) ([]*domain.PlaceWithDistance, error) {
	args := m.Called(ctx, lon, lat, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PlaceWithDistance), args.Error(1)
}

func (m *MockPlaceRepository) GetStats(ctx context.Context) (*domain.PlaceStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaceStats), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateSearch(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheRepository) GetStats(ctx context.Context) (*domain.PlaceStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaceStats), args.Error(1)
}

func (m *MockCacheRepository) SetStats(ctx context.Context, stats *domain.PlaceStats, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

func newPlaceUseCase(placeRepo *MockPlaceRepository, cacheRepo *MockCacheRepository, streamRepo *MockStreamRepository) *usecase.PlaceUseCase {
	return usecase.NewPlaceUseCase(
		placeRepo,
		cacheRepo,
		streamRepo,
		zap.NewNop(),
		time.Minute,
		1000,
	)
}

func TestPlaceUseCase_ImportFromKML(t *testing.T) {
	ctx := context.Background()

	kmlDoc := []byte(`<kml><Document><Folder>
		<Placemark>
			<name>Sagrada Familia</name>
			<description>Basilica in Barcelona</description>
			<Point><coordinates>2.1744,41.4036,12</coordinates></Point>
		</Placemark>
		<Placemark>
			<name>Park Guell</name>
			<Point><coordinates>2.1527,41.4145</coordinates></Point>
		</Placemark>
	</Folder></Document></kml>`)

	t.Run("success with two placemarks, one missing description", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		placeRepo.On("InsertBatch", ctx, mock.MatchedBy(func(places []*domain.Place) bool {
			if len(places) != 2 {
				return false
			}
			first, second := places[0], places[1]
			// Altitude must be discarded from the first placemark
			return first.Name == "Sagrada Familia" &&
				first.Description == "Basilica in Barcelona" &&
				first.Geo.Lon() == 2.1744 && first.Geo.Lat() == 41.4036 &&
				second.Name == "Park Guell" &&
				second.Description == "" &&
				second.Geo.Lon() == 2.1527 && second.Geo.Lat() == 41.4145
		})).Return(nil)
		cacheRepo.On("InvalidateSearch", ctx).Return(nil)
		streamRepo.On("PublishToStream", ctx, domain.StreamPlacesImported, mock.MatchedBy(func(data interface{}) bool {
			event, ok := data.(domain.ImportCompletedEvent)
			return ok && event.Count == 2
		})).Return(nil)

		result, err := uc.ImportFromKML(ctx, kmlDoc)
		require.NoError(t, err)
		assert.Equal(t, dto.StatusOK, result.Status)

		placeRepo.AssertExpectations(t)
		cacheRepo.AssertExpectations(t)
		streamRepo.AssertExpectations(t)
	})

	t.Run("malformed document rejects whole request", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		result, err := uc.ImportFromKML(ctx, []byte(`<kml><Document><Folder><Placemark><name>Broken`))
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrMalformedKML, err)

		placeRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
	})

	t.Run("placemark without coordinates rejects whole request", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		doc := []byte(`<kml><Document><Folder><Placemark><name>NoPoint</name></Placemark></Folder></Document></kml>`)
		result, err := uc.ImportFromKML(ctx, doc)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrMalformedKML, err)

		placeRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
	})

	t.Run("empty payload", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		result, err := uc.ImportFromKML(ctx, nil)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrEmptyUpload, err)
	})

	t.Run("insert failure propagates", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		placeRepo.On("InsertBatch", ctx, mock.Anything).Return(apperrors.ErrDatabaseError)

		result, err := uc.ImportFromKML(ctx, kmlDoc)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrDatabaseError, err)

		cacheRepo.AssertNotCalled(t, "InvalidateSearch", mock.Anything)
		streamRepo.AssertNotCalled(t, "PublishToStream", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache and stream failures do not fail import", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		placeRepo.On("InsertBatch", ctx, mock.Anything).Return(nil)
		cacheRepo.On("InvalidateSearch", ctx).Return(apperrors.ErrCacheError)
		streamRepo.On("PublishToStream", ctx, domain.StreamPlacesImported, mock.Anything).
			Return(assert.AnError)

		result, err := uc.ImportFromKML(ctx, kmlDoc)
		require.NoError(t, err)
		assert.Equal(t, dto.StatusOK, result.Status)
	})
}

func TestPlaceUseCase_Search(t *testing.T) {
	ctx := context.Background()

	found := []*domain.Place{
		{ID: 1, Name: "Park Guell", Description: "Gaudi park", Geo: domain.NewGeoPoint(2.1527, 41.4145)},
		{ID: 2, Name: "Sagrada Familia", Description: "Basilica", Geo: domain.NewGeoPoint(2.1744, 41.4036)},
	}

	t.Run("cache miss queries repository and caches result", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		cacheRepo.On("Get", ctx, "search:gaudi:0:10").Return(nil, nil)
		placeRepo.On("SearchByText", ctx, "gaudi", 0, 10).Return(found, nil)
		cacheRepo.On("Set", ctx, "search:gaudi:0:10", mock.Anything, time.Minute).Return(nil)

		places, err := uc.Search(ctx, dto.SearchPlacesRequest{SearchWords: "gaudi", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, found, places)

		placeRepo.AssertExpectations(t)
		cacheRepo.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		cached := []byte(`[{"id":1,"name":"Park Guell","description":"Gaudi park","geo":{"type":"Point","coordinates":[2.1527,41.4145]}}]`)
		cacheRepo.On("Get", ctx, "search:gaudi:0:0").Return(cached, nil)

		places, err := uc.Search(ctx, dto.SearchPlacesRequest{SearchWords: "gaudi"})
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "Park Guell", places[0].Name)
		assert.Equal(t, 2.1527, places[0].Geo.Lon())

		placeRepo.AssertNotCalled(t, "SearchByText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty search words rejected", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		places, err := uc.Search(ctx, dto.SearchPlacesRequest{SearchWords: ""})
		assert.Nil(t, places)
		assert.Equal(t, apperrors.ErrEmptySearch, err)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		cacheRepo.On("Get", ctx, mock.Anything).Return(nil, nil)
		placeRepo.On("SearchByText", ctx, "gaudi", 0, 0).Return(nil, apperrors.ErrDatabaseError)

		places, err := uc.Search(ctx, dto.SearchPlacesRequest{SearchWords: "gaudi"})
		assert.Nil(t, places)
		assert.Equal(t, apperrors.ErrDatabaseError, err)
	})
}

func TestPlaceUseCase_Around(t *testing.T) {
	ctx := context.Background()

	ordered := []*domain.PlaceWithDistance{
		{Place: domain.Place{ID: 1, Name: "Close"}, Distance: 0},
		{Place: domain.Place{ID: 2, Name: "Further"}, Distance: 431.7},
	}

	t.Run("default radius applied when radius absent", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		placeRepo.On("GetWithinRadius", ctx, 2.1744, 41.4036, 1000.0).Return(ordered, nil)

		places, err := uc.Around(ctx, dto.PlacesAroundRequest{
			Coordinates: []float64{2.1744, 41.4036},
		})
		require.NoError(t, err)
		assert.Equal(t, ordered, places)

		placeRepo.AssertExpectations(t)
	})

	t.Run("explicit zero radius stays zero", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		zero := 0.0
		placeRepo.On("GetWithinRadius", ctx, 2.1744, 41.4036, 0.0).
			Return([]*domain.PlaceWithDistance{ordered[0]}, nil)

		places, err := uc.Around(ctx, dto.PlacesAroundRequest{
			Coordinates: []float64{2.1744, 41.4036},
			Radius:      &zero,
		})
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, 0.0, places[0].Distance)
	})

	t.Run("distances are non-decreasing in returned order", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		placeRepo.On("GetWithinRadius", ctx, 2.0, 41.0, 1000.0).Return(ordered, nil)

		places, err := uc.Around(ctx, dto.PlacesAroundRequest{Coordinates: []float64{2.0, 41.0}})
		require.NoError(t, err)
		for i := 1; i < len(places); i++ {
			assert.GreaterOrEqual(t, places[i].Distance, places[i-1].Distance)
		}
	})

	t.Run("invalid coordinates rejected", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		places, err := uc.Around(ctx, dto.PlacesAroundRequest{
			Coordinates: []float64{200.0, 95.0},
		})
		assert.Nil(t, places)
		assert.Equal(t, apperrors.ErrInvalidCoordinates, err)

		placeRepo.AssertNotCalled(t, "GetWithinRadius", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("coordinate pair must have exactly two values", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		places, err := uc.Around(ctx, dto.PlacesAroundRequest{
			Coordinates: []float64{2.0},
		})
		assert.Nil(t, places)
		assert.Equal(t, apperrors.ErrInvalidCoordinates, err)
	})

	t.Run("negative radius rejected", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newPlaceUseCase(placeRepo, cacheRepo, streamRepo)

		negative := -5.0
		places, err := uc.Around(ctx, dto.PlacesAroundRequest{
			Coordinates: []float64{2.0, 41.0},
			Radius:      &negative,
		})
		assert.Nil(t, places)
		assert.Equal(t, apperrors.ErrInvalidRadius, err)
	})
}
