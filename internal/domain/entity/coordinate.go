// Package entity contains the core business objects of the project.
package entity

import "fmt"

// Coordinate is an immutable geographic position in WGS84.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies within the WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// FallbackAddress renders the coordinate as a deterministic address
// substitute, used whenever reverse geocoding is unavailable.
func (c Coordinate) FallbackAddress() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
}
