package usecase

import (
	"context"

	"itinero/internal/domain/entity"
)

// EnrichmentUsecase turns the current waypoint list into narratives and
// geocoded places of interest. It is the most expensive operation in the
// system: one language-model round-trip plus one geocode per place.
type EnrichmentUsecase interface {
	// Enrich requires len(waypoints) >= 2. Individual place geocode
	// failures are absorbed into the result (nil positions); a malformed
	// or mismatched backend response is returned as an error.
	Enrich(ctx context.Context, waypoints []entity.Waypoint) (*entity.EnrichmentResult, error)
}
