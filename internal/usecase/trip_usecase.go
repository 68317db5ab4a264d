package usecase

import (
	"context"

	"itinero/internal/domain/entity"

	"github.com/google/uuid"
)

// MarkerKind distinguishes the two marker populations on the map.
type MarkerKind string

const (
	MarkerKindWaypoint MarkerKind = "waypoint"
	MarkerKindPOI      MarkerKind = "poi"
)

// Marker is one visual marker. Waypoint markers are keyed by waypoint id;
// place-of-interest markers by "poi:<narrativeIndex>:<placeIndex>".
type Marker struct {
	Key        string            `json:"key"`
	Kind       MarkerKind        `json:"kind"`
	Position   entity.Coordinate `json:"latlng"`
	Label      string            `json:"label"`
	Emphasized bool              `json:"emphasized"`
}

// RouteLineState is the display state of the route line.
type RouteLineState string

const (
	RouteLineNone      RouteLineState = "no_route"
	RouteLineComputing RouteLineState = "computing"
	RouteLineDisplayed RouteLineState = "displayed"
)

// ViewState is the map viewport: hover recenters it at unchanged zoom.
type ViewState struct {
	Center entity.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`
}

// TripSnapshot is a consistent copy of one session's displayable state.
type TripSnapshot struct {
	Waypoints  []entity.Waypoint        `json:"waypoints"`
	Summary    entity.RouteSummary      `json:"summary"`
	RouteLine  RouteLineState           `json:"routeLine"`
	Path       []entity.Coordinate      `json:"path,omitempty"`
	Markers    []Marker                 `json:"markers"`
	Enrichment *entity.EnrichmentResult `json:"enrichment,omitempty"`
	Enriching  bool                     `json:"enriching"`
	View       ViewState                `json:"view"`
}

// TripUsecase manages one in-memory trip session per user: the ordered
// waypoint collection, the derived route, the enrichment result, and the
// marker board that mirrors them.
type TripUsecase interface {
	// AddWaypoint appends a waypoint at the clicked position. The waypoint
	// is created synchronously with the coordinate fallback address; the
	// resolved address is backfilled asynchronously if the waypoint still
	// exists when the reverse geocode completes.
	AddWaypoint(ctx context.Context, userID uuid.UUID, position entity.Coordinate) (*entity.Waypoint, error)

	// RemoveWaypoint removes a waypoint by id.
	RemoveWaypoint(ctx context.Context, userID uuid.UUID, waypointID string) error

	// ClearWaypoints empties the session, including route and enrichment.
	ClearWaypoints(ctx context.Context, userID uuid.UUID) error

	// CollapseToEndpoints reduces the sequence to [first, last]. Requires
	// at least two waypoints.
	CollapseToEndpoints(ctx context.Context, userID uuid.UUID) error

	// SetHover emphasizes the marker with the given key and recenters the
	// view on it. An empty key clears the emphasis. Never performs network
	// calls or recomputation.
	SetHover(ctx context.Context, userID uuid.UUID, markerKey string) (*ViewState, error)

	// Enrich runs the enrichment pipeline over the current waypoints.
	// A later call supersedes an in-flight one (last result wins).
	Enrich(ctx context.Context, userID uuid.UUID) (*entity.EnrichmentResult, error)

	// LoadRoute restores a saved route into the session. The route line is
	// recomputed only when the restored coordinate sequence differs from
	// the basis of the currently displayed route.
	LoadRoute(ctx context.Context, userID uuid.UUID, routeID uuid.UUID) error

	// Snapshot returns a consistent copy of the session state.
	Snapshot(ctx context.Context, userID uuid.UUID) (*TripSnapshot, error)
}
