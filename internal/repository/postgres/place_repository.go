package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/places-service/internal/pkg/errors"
	"go.uber.org/zap"
)

type placeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPlaceRepository(db *DB) repository.PlaceRepository {
	return &placeRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// InsertBatch вставляет весь батч одним multi-row INSERT.
// Атомарность - на уровне одного SQL-стейтмента.
func (r *placeRepository) InsertBatch(ctx context.Context, places []*domain.Place) error {
	if len(places) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO places (name, description, geom) VALUES `)

	args := make([]interface{}, 0, len(places)*4)
	for i, p := range places {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, ST_SetSRID(ST_MakePoint($%d, $%d), 4326))",
			n+1, n+2, n+3, n+4)
		args = append(args, p.Name, p.Description, p.Geo.Lon(), p.Geo.Lat())
	}

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		r.logger.Error("Failed to insert places batch",
			zap.Int("count", len(places)),
			zap.Error(err),
		)
		return errors.ErrDatabaseError
	}

	return nil
}

// SearchByText ищет по полнотекстовому индексу name+description.
// Сортировка всегда по name ASC, не по релевантности.
func (r *placeRepository) SearchByText(
	ctx context.Context,
	words string,
	skip, limit int,
) ([]*domain.Place, error) {
	query := `
		SELECT id, name, description,
			ST_X(geom) AS lon, ST_Y(geom) AS lat
		FROM places
		WHERE search_vector @@ plainto_tsquery('simple', $1)
		ORDER BY name ASC
		OFFSET $2
	`

	args := []interface{}{words, skip}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to search places", zap.String("words", words), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	places := make([]*domain.Place, 0)
	for rows.Next() {
		var p domain.Place
		var lon, lat float64

		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &lon, &lat); err != nil {
			r.logger.Error("Failed to scan place", zap.Error(err))
			continue
		}

		p.Geo = domain.NewGeoPoint(lon, lat)
		places = append(places, &p)
	}

	return places, nil
}

// GetWithinRadius возвращает места в радиусе radiusMeters от точки,
// отсортированные по возрастанию дистанции. Дистанция считается по
// geography-касту, то есть по сфере и в метрах; граница включительная.
func (r *placeRepository) GetWithinRadius(
	ctx context.Context,
	lon, lat, radiusMeters float64,
) ([]*domain.PlaceWithDistance, error) {
	query := `
		WITH center AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS geom
		)
		SELECT p.id, p.name, p.description,
			ST_X(p.geom) AS lon, ST_Y(p.geom) AS lat,
			ST_Distance(p.geom::geography, center.geom) AS distance
		FROM places p, center
		WHERE ST_DWithin(p.geom::geography, center.geom, $3)
		ORDER BY distance ASC
	`

	rows, err := r.db.QueryContext(ctx, query, lon, lat, radiusMeters)
	if err != nil {
		r.logger.Error("Failed to get places within radius",
			zap.Float64("lon", lon),
			zap.Float64("lat", lat),
			zap.Float64("radius_m", radiusMeters),
			zap.Error(err),
		)
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	places := make([]*domain.PlaceWithDistance, 0)
	for rows.Next() {
		var p domain.PlaceWithDistance
		var plon, plat float64

		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &plon, &plat, &p.Distance); err != nil {
			r.logger.Error("Failed to scan place with distance", zap.Error(err))
			continue
		}

		p.Geo = domain.NewGeoPoint(plon, plat)
		places = append(places, &p)
	}

	return places, nil
}

// GetStats возвращает количество мест и покрываемый bounding box.
func (r *placeRepository) GetStats(ctx context.Context) (*domain.PlaceStats, error) {
	query := `
		SELECT count(*) AS total,
			ST_XMin(ST_Extent(geom)) AS min_lon,
			ST_YMin(ST_Extent(geom)) AS min_lat,
			ST_XMax(ST_Extent(geom)) AS max_lon,
			ST_YMax(ST_Extent(geom)) AS max_lat
		FROM places
	`

	var total int
	var minLon, minLat, maxLon, maxLat sql.NullFloat64

	err := r.db.QueryRowContext(ctx, query).Scan(&total, &minLon, &minLat, &maxLon, &maxLat)
	if err != nil {
		r.logger.Error("Failed to get place stats", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	stats := &domain.PlaceStats{
		TotalPlaces: total,
		LastUpdated: time.Now().UTC(),
	}

	// Extent равен NULL, пока нет ни одного места
	if minLon.Valid {
		stats.Coverage = &domain.BoundingBox{
			MinLon:    minLon.Float64,
			MinLat:    minLat.Float64,
			MaxLon:    maxLon.Float64,
			MaxLat:    maxLat.Float64,
			CenterLon: (minLon.Float64 + maxLon.Float64) / 2,
			CenterLat: (minLat.Float64 + maxLat.Float64) / 2,
		}
	}

	return stats, nil
}
