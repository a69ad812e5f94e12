package domain

import "time"

// GeoPointType is the only geometry type the service stores.
const GeoPointType = "Point"

// GeoPoint is a GeoJSON-style point. Coordinates are always exactly two
// values, (longitude, latitude) in that order.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewGeoPoint builds a Point geometry from longitude and latitude.
func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{
		Type:        GeoPointType,
		Coordinates: [2]float64{lon, lat},
	}
}

// Lon returns the longitude (x) component.
func (p GeoPoint) Lon() float64 { return p.Coordinates[0] }

// Lat returns the latitude (y) component.
func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }

// Place представляет именованную географическую точку
type Place struct {
	ID          int64    `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Geo         GeoPoint `json:"geo"`
}

// PlaceWithDistance is a Place projected with the distance from a query
// point, in meters. Computed by the store at query time, never persisted.
type PlaceWithDistance struct {
	Place
	Distance float64 `json:"distance"`
}

// PlaceStats агрегированная статистика по загруженным местам
type PlaceStats struct {
	TotalPlaces int          `json:"total_places"`
	Coverage    *BoundingBox `json:"coverage,omitempty"`
	LastUpdated time.Time    `json:"last_updated"`
}

// BoundingBox covers the extent of all stored places.
type BoundingBox struct {
	MinLat    float64 `json:"min_lat" db:"min_lat"`
	MinLon    float64 `json:"min_lon" db:"min_lon"`
	MaxLat    float64 `json:"max_lat" db:"max_lat"`
	MaxLon    float64 `json:"max_lon" db:"max_lon"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
}
