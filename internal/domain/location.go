package domain

import "math"

// Location is the point a series was fetched for.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

// Validate rejects coordinates outside WGS-84 bounds.
func (l Location) Validate() error {
	if math.IsNaN(l.Lat) || l.Lat < -90 || l.Lat > 90 {
		return invalid("latitude", l.Lat, "must be between -90 and 90")
	}
	if math.IsNaN(l.Lon) || l.Lon < -180 || l.Lon > 180 {
		return invalid("longitude", l.Lon, "must be between -180 and 180")
	}
	return nil
}
