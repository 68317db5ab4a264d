package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"itinero/config"
	"itinero/internal/domain/entity"
	"itinero/internal/domain/repository"
	"itinero/internal/domain/service"
	"itinero/internal/usecase"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCoordinate is returned when a position lies outside WGS84 bounds
	ErrInvalidCoordinate = errors.New("coordinate is out of range")
	// ErrWaypointNotFound is returned when a waypoint id does not exist in the session
	ErrWaypointNotFound = errors.New("waypoint not found")
	// ErrWaypointLimitReached is returned when the session already holds the maximum number of waypoints
	ErrWaypointLimitReached = errors.New("waypoint limit reached")
	// ErrMarkerNotFound is returned when a hover targets an unknown marker key
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrRouteNotFound is returned when a saved route does not exist for this owner
	ErrRouteNotFound = errors.New("route not found")
)

const (
	defaultMaxWaypoints = 25
	defaultZoom         = 13
)

// tripSession is one user's in-memory trip. All fields are guarded by mu;
// the generation counters let the slow asynchronous work (route planning,
// enrichment) detect that a newer request has superseded it.
type tripSession struct {
	mu sync.Mutex

	waypoints []entity.Waypoint

	summary    entity.RouteSummary
	routeLine  usecase.RouteLineState
	path       []entity.Coordinate
	routeBasis []entity.Coordinate
	routeGen   uint64

	enrichment *entity.EnrichmentResult
	enrichGen  uint64
	enriching  bool

	board *markerBoard
	view  usecase.ViewState
}

type tripService struct {
	geocoder service.Geocoder
	planner  service.RoutePlanner
	enricher usecase.EnrichmentUsecase
	routes   repository.RouteRepository
	logger   *slog.Logger

	maxWaypoints int

	mu       sync.Mutex
	sessions map[uuid.UUID]*tripSession
}

// NewTripService creates a new trip service instance
func NewTripService(
	cfg *config.Config,
	geocoder service.Geocoder,
	planner service.RoutePlanner,
	enricher usecase.EnrichmentUsecase,
	routes repository.RouteRepository,
	logger *slog.Logger,
) usecase.TripUsecase {
	maxWaypoints := defaultMaxWaypoints
	if cfg != nil && cfg.Trip != nil && cfg.Trip.MaxWaypoints > 0 {
		maxWaypoints = cfg.Trip.MaxWaypoints
	}

	return &tripService{
		geocoder:     geocoder,
		planner:      planner,
		enricher:     enricher,
		routes:       routes,
		logger:       logger,
		maxWaypoints: maxWaypoints,
		sessions:     make(map[uuid.UUID]*tripSession),
	}
}

func (t *tripService) session(userID uuid.UUID) *tripSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.sessions[userID]; ok {
		return s
	}

	s := &tripSession{
		routeLine: usecase.RouteLineNone,
		summary:   entity.RouteSummary{Status: entity.RouteAbsent},
		board:     newMarkerBoard(),
		view: usecase.ViewState{
			Center: entity.Coordinate{Lat: 48.8566, Lng: 2.3522},
			Zoom:   defaultZoom,
		},
	}
	t.sessions[userID] = s

	return s
}

// AddWaypoint creates the waypoint immediately with the coordinate
// fallback address, then resolves the real address in the background. The
// resolved address is only applied if the waypoint still exists by then.
func (t *tripService) AddWaypoint(_ context.Context, userID uuid.UUID, position entity.Coordinate) (*entity.Waypoint, error) {
	if !position.Valid() {
		return nil, ErrInvalidCoordinate
	}

	s := t.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.waypoints) >= t.maxWaypoints {
		return nil, ErrWaypointLimitReached
	}

	waypoint := entity.Waypoint{
		ID:       uuid.NewString(),
		Position: position,
		Address:  position.FallbackAddress(),
	}
	s.waypoints = append(s.waypoints, waypoint)
	s.board.syncWaypoints(s.waypoints)
	t.syncRouteLocked(s)

	// Resolve off the request: the session outlives the request context.
	go t.backfillAddress(s, waypoint.ID, position)

	created := waypoint

	return &created, nil
}

func (t *tripService) backfillAddress(s *tripSession, waypointID string, position entity.Coordinate) {
	address := t.geocoder.ReverseGeocode(context.Background(), position)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.waypoints {
		if s.waypoints[i].ID == waypointID {
			s.waypoints[i].Address = address
			s.board.syncWaypoints(s.waypoints)

			return
		}
	}
	// Waypoint was removed before the lookup finished; drop the result.
}

func (t *tripService) RemoveWaypoint(_ context.Context, userID uuid.UUID, waypointID string) error {
	s := t.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.waypoints {
		if s.waypoints[i].ID == waypointID {
			index = i

			break
		}
	}
	if index < 0 {
		return ErrWaypointNotFound
	}

	s.waypoints = append(s.waypoints[:index], s.waypoints[index+1:]...)
	// Narratives referencing the removed waypoint stay displayable; the
	// enrichment result is only replaced by the next Enrich or Clear.
	s.board.syncWaypoints(s.waypoints)
	t.syncRouteLocked(s)

	return nil
}

func (t *tripService) ClearWaypoints(_ context.Context, userID uuid.UUID) error {
	s := t.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.waypoints = nil
	s.enrichment = nil
	s.enriching = false
	s.enrichGen++
	s.board.reset()
	t.syncRouteLocked(s)

	return nil
}

func (t *tripService) CollapseToEndpoints(_ context.Context, userID uuid.UUID) error {
	s := t.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.waypoints) < 2 {
		return ErrNotEnoughWaypoints
	}

	first := s.waypoints[0]
	last := s.waypoints[len(s.waypoints)-1]
	s.waypoints = []entity.Waypoint{first, last}
	s.board.syncWaypoints(s.waypoints)
	t.syncRouteLocked(s)

	return nil
}

// SetHover is pure presentation: it emphasizes one marker and recenters
// the view at unchanged zoom, without any recomputation or network call.
func (t *tripService) SetHover(_ context.Context, userID uuid.UUID, markerKey string) (*usecase.ViewState, error) {
	s := t.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	position, ok := s.board.setHover(markerKey)
	if !ok {
		return nil, ErrMarkerNotFound
	}
	if position != nil {
		s.view.Center = *position
	}

	view := s.view

	return &view, nil
}

// Enrich runs the pipeline over a snapshot of the current waypoints. The
// session stays usable while the call is in flight; only the newest
// in-flight call may publish its result (last result wins).
func (t *tripService) Enrich(ctx context.Context, userID uuid.UUID) (*entity.EnrichmentResult, error) {
	s := t.session(userID)

	s.mu.Lock()
	if len(s.waypoints) < 2 {
		s.mu.Unlock()

		return nil, ErrNotEnoughWaypoints
	}
	waypoints := make([]entity.Waypoint, len(s.waypoints))
	copy(waypoints, s.waypoints)
	s.enrichGen++
	gen := s.enrichGen
	s.enriching = true
	s.mu.Unlock()

	result, err := t.enricher.Enrich(ctx, waypoints)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.enrichGen {
		// A newer call or a session reset superseded this one. The caller
		// still gets its result, but the session is not touched.
		if err != nil {
			return nil, err
		}

		return result, nil
	}

	s.enriching = false
	if err != nil {
		return nil, err
	}

	s.enrichment = result
	s.board.syncPOIs(result)

	return result, nil
}

// LoadRoute restores a saved itinerary into the session. The route line is
// recomputed only when the restored coordinates differ from the basis of
// the currently displayed route.
func (t *tripService) LoadRoute(ctx context.Context, userID uuid.UUID, routeID uuid.UUID) error {
	saved, err := t.routes.FindRouteByIDAndOwner(ctx, routeID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return ErrRouteNotFound
		}

		return fmt.Errorf("failed to load route: %w", err)
	}

	s := t.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.waypoints = make([]entity.Waypoint, len(saved.Waypoints))
	copy(s.waypoints, saved.Waypoints)
	s.enrichment = saved.Enrichment
	s.enriching = false
	s.enrichGen++

	s.board.reset()
	s.board.syncWaypoints(s.waypoints)
	s.board.syncPOIs(s.enrichment)

	if len(s.waypoints) > 0 {
		s.view.Center = s.waypoints[0].Position
	}

	t.syncRouteLocked(s)

	return nil
}

func (t *tripService) Snapshot(_ context.Context, userID uuid.UUID) (*usecase.TripSnapshot, error) {
	s := t.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := &usecase.TripSnapshot{
		Waypoints: make([]entity.Waypoint, len(s.waypoints)),
		Summary:   s.summary,
		RouteLine: s.routeLine,
		Markers:   s.board.markers(),
		Enriching: s.enriching,
		View:      s.view,
	}
	copy(snapshot.Waypoints, s.waypoints)

	if len(s.path) > 0 {
		snapshot.Path = make([]entity.Coordinate, len(s.path))
		copy(snapshot.Path, s.path)
	}

	if s.enrichment != nil {
		enrichment := *s.enrichment
		enrichment.Narratives = make([]entity.LocationNarrative, len(s.enrichment.Narratives))
		copy(enrichment.Narratives, s.enrichment.Narratives)
		snapshot.Enrichment = &enrichment
	}

	return snapshot, nil
}

// syncRouteLocked reconciles the route line with the current waypoints.
// Callers must hold s.mu. Planning runs asynchronously; the generation
// counter makes the latest request win regardless of completion order.
func (t *tripService) syncRouteLocked(s *tripSession) {
	if len(s.waypoints) < 2 {
		s.routeGen++
		s.routeBasis = nil
		s.path = nil
		s.routeLine = usecase.RouteLineNone
		s.summary = entity.RouteSummary{Status: entity.RouteAbsent}

		return
	}

	basis := make([]entity.Coordinate, 0, len(s.waypoints))
	for _, waypoint := range s.waypoints {
		basis = append(basis, waypoint.Position)
	}

	// Same coordinate sequence as the displayed or in-flight route: an
	// unrelated change (address backfill, hover) must not trigger a
	// recomputation.
	if coordinatesEqual(basis, s.routeBasis) {
		return
	}

	s.routeGen++
	gen := s.routeGen
	s.routeBasis = basis
	s.routeLine = usecase.RouteLineComputing
	s.summary.Status = entity.RoutePending

	go t.planRoute(s, gen, basis)
}

func (t *tripService) planRoute(s *tripSession, gen uint64, basis []entity.Coordinate) {
	path, err := t.planner.PlanRoute(context.Background(), basis)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.routeGen {
		// A newer request replaced this computation; drop the answer.
		return
	}

	if err != nil {
		t.logger.Warn("route planning failed", slog.Any("error", err))
		s.routeBasis = nil
		s.path = nil
		s.routeLine = usecase.RouteLineNone
		s.summary = entity.RouteSummary{Status: entity.RouteAbsent}

		return
	}

	s.path = make([]entity.Coordinate, 0, len(path.Geometry))
	for _, point := range path.Geometry {
		s.path = append(s.path, entity.Coordinate{Lat: point.Lat(), Lng: point.Lon()})
	}
	s.routeLine = usecase.RouteLineDisplayed
	s.summary = entity.RouteSummary{
		TotalDistanceKm:  path.DistanceKm,
		TotalDurationMin: path.DurationMin,
		Status:           entity.RouteReady,
	}
}

func coordinatesEqual(a, b []entity.Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
