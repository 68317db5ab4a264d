package usecase

import (
	"context"

	"itinero/internal/domain/entity"

	"github.com/google/uuid"
)

// SaveRouteInput represents the input for saving the current trip.
type SaveRouteInput struct {
	Name       string                   `json:"name"`
	Waypoints  []entity.Waypoint        `json:"waypoints"`
	Enrichment *entity.EnrichmentResult `json:"enrichment,omitempty"`
}

// ItineraryUsecase persists and restores saved routes, always scoped to
// the authenticated owner.
type ItineraryUsecase interface {
	// SaveRoute stores the waypoints and optional enrichment under the
	// owner. Requires at least two waypoints and a non-zero owner.
	SaveRoute(ctx context.Context, ownerID uuid.UUID, input *SaveRouteInput) (*entity.SavedRoute, error)

	// ListRoutes returns the owner's routes, most recent first.
	ListRoutes(ctx context.Context, ownerID uuid.UUID) ([]*entity.SavedRoute, error)

	// GetRoute fetches one route; a record owned by someone else reports
	// as not found.
	GetRoute(ctx context.Context, id, ownerID uuid.UUID) (*entity.SavedRoute, error)

	// DeleteRoute removes one route under the same scoping rule and
	// reports whether anything was removed.
	DeleteRoute(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}
