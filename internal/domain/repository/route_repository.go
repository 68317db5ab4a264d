// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"itinero/internal/domain/entity"
	"itinero/internal/errors"

	"github.com/google/uuid"
)

// ErrRouteNotFound is returned when a route does not exist or does not
// belong to the requesting owner. The two cases are deliberately
// indistinguishable.
var ErrRouteNotFound = errors.New("route not found")

// RouteRepository defines the interface for saved-route database operations.
// Every read and delete is scoped by both record id and owner id.
type RouteRepository interface {
	// CreateRoute persists a new saved route and fills in the generated
	// id and creation timestamp.
	CreateRoute(ctx context.Context, route *entity.SavedRoute) error

	// FindRoutesByOwner retrieves all routes for an owner, most recent first.
	FindRoutesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.SavedRoute, error)

	// FindRouteByIDAndOwner retrieves one route scoped by id and owner.
	// Returns ErrRouteNotFound when absent or owned by someone else.
	FindRouteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.SavedRoute, error)

	// DeleteRouteByIDAndOwner removes a route scoped by id and owner and
	// reports whether a record was actually removed.
	DeleteRouteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}
