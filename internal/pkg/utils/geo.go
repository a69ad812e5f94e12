package utils

// ValidateCoordinates проверяет валидность координат (lon, lat)
func ValidateCoordinates(lon, lat float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius проверяет валидность радиуса в метрах
func ValidateRadius(radiusMeters float64) bool {
	return radiusMeters >= 0
}
