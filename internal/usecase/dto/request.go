package dto

// SearchPlacesRequest - запрос на полнотекстовый поиск мест
type SearchPlacesRequest struct {
	SearchWords string `json:"search_words" validate:"required,min=1"`
	Skip        int    `json:"skip" validate:"omitempty,min=0"`
	Limit       int    `json:"limit" validate:"omitempty,min=1,max=1000"`
}

// PlacesAroundRequest - запрос на поиск мест в радиусе от точки.
// Coordinates - строго пара (lon, lat); radius - в метрах.
// Указатель различает "radius не передан" (дефолт) и явный 0.
type PlacesAroundRequest struct {
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	Radius      *float64  `json:"radius" validate:"omitempty,min=0"`
}
