package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"itinero/internal/domain/entity"
	"itinero/internal/domain/repository"
	"itinero/internal/usecase"

	"github.com/google/uuid"
)

var (
	// ErrRouteNameRequired is returned when a route is saved without a name
	ErrRouteNameRequired = errors.New("route name is required")
	// ErrUnauthorized is returned when the owner id is missing
	ErrUnauthorized = errors.New("unauthorized")
)

type itineraryService struct {
	routeRepo repository.RouteRepository
}

// NewItineraryService creates a new itinerary service instance
func NewItineraryService(routeRepo repository.RouteRepository) usecase.ItineraryUsecase {
	return &itineraryService{routeRepo: routeRepo}
}

// SaveRoute persists the current waypoints and optional enrichment under
// the owner.
func (s *itineraryService) SaveRoute(ctx context.Context, ownerID uuid.UUID, input *usecase.SaveRouteInput) (*entity.SavedRoute, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if len(input.Waypoints) < 2 {
		return nil, ErrNotEnoughWaypoints
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrRouteNameRequired
	}

	route := &entity.SavedRoute{
		OwnerID:    ownerID,
		Name:       name,
		Waypoints:  input.Waypoints,
		Enrichment: input.Enrichment,
	}

	if err := s.routeRepo.CreateRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	return route, nil
}

// ListRoutes returns the owner's saved routes, most recent first.
func (s *itineraryService) ListRoutes(ctx context.Context, ownerID uuid.UUID) ([]*entity.SavedRoute, error) {
	routes, err := s.routeRepo.FindRoutesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find routes by owner: %w", err)
	}

	return routes, nil
}

// GetRoute fetches one saved route. A record owned by someone else is
// reported as not found.
func (s *itineraryService) GetRoute(ctx context.Context, id, ownerID uuid.UUID) (*entity.SavedRoute, error) {
	route, err := s.routeRepo.FindRouteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}

		return nil, fmt.Errorf("failed to find route: %w", err)
	}

	return route, nil
}

// DeleteRoute removes one saved route under the same owner scoping and
// reports whether anything was removed.
func (s *itineraryService) DeleteRoute(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	deleted, err := s.routeRepo.DeleteRouteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete route: %w", err)
	}

	return deleted, nil
}
