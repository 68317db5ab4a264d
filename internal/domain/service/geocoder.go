// Package service defines interfaces for infrastructure-backed domain services.
package service

import (
	"context"

	"itinero/internal/domain/entity"
)

// Geocoder translates between coordinates and human-readable addresses.
//
// Both operations degrade instead of failing: a reverse lookup that cannot
// be served yields the coordinate's fallback string, and a forward lookup
// that cannot be served yields nil. Callers therefore never have to handle
// a geocoding error; absence is represented in the data itself.
type Geocoder interface {
	// ReverseGeocode resolves a coordinate to an address. On any provider
	// failure it returns position.FallbackAddress().
	ReverseGeocode(ctx context.Context, position entity.Coordinate) string

	// ForwardGeocode resolves an address to a coordinate, taking the first
	// candidate when the provider returns several. Returns nil for empty
	// input, provider failure, or an empty result set.
	ForwardGeocode(ctx context.Context, address string) *entity.Coordinate
}
