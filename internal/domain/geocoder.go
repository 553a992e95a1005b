package domain

import "context"

// GeocodingResult is a place resolved by a geocoding provider.
type GeocodingResult struct {
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	FormattedAddress string  `json:"formatted_address"`
	PlaceName        string  `json:"place_name"`
	Confidence       float64 `json:"confidence"` // 0.0–1.0 provider relevance
}

// Geocoder resolves free-text place names to coordinates.
type Geocoder interface {
	// ForwardGeocode returns the best match for query, or ErrLocationNotFound.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}

// SeriesFetcher retrieves the full raw daily series for a point. Failures
// wrap ErrUpstream.
type SeriesFetcher interface {
	FetchDaily(ctx context.Context, lat, lon float64) ([]DailyRecord, error)
}
