package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// RouteStatus describes the lifecycle of a route summary.
type RouteStatus string

const (
	// RouteAbsent means no route exists, because fewer than two waypoints
	// are placed or the engine failed.
	RouteAbsent RouteStatus = "absent"
	// RoutePending means a computation is in flight.
	RoutePending RouteStatus = "pending"
	// RouteReady means the summary reflects the engine's latest answer.
	RouteReady RouteStatus = "ready"
)

// RouteSummary is the numeric digest of a computed route.
type RouteSummary struct {
	TotalDistanceKm  float64     `json:"totalDistanceKm"`
	TotalDurationMin float64     `json:"totalDurationMinutes"`
	Status           RouteStatus `json:"status"`
}

// RoutePath is the driven path the routing engine produced for one ordered
// coordinate sequence, along with its converted summary numbers.
type RoutePath struct {
	Geometry    orb.LineString
	DistanceKm  float64
	DurationMin float64
}

// SavedRoute is a persisted itinerary, scoped to the owner that saved it.
type SavedRoute struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Name       string
	Waypoints  []Waypoint
	Enrichment *EnrichmentResult
	CreatedAt  time.Time
}
