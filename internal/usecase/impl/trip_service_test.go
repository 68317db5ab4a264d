package impl

import (
	"context"
	"testing"
	"time"

	"itinero/config"
	"itinero/internal/domain/entity"
	"itinero/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tripFixture struct {
	svc      usecase.TripUsecase
	geocoder *fakeGeocoder
	planner  *gatedPlanner
	enricher *fakeEnricher
	repo     *memoryRouteRepo
	userID   uuid.UUID
}

func newTripFixture(t *testing.T) *tripFixture {
	t.Helper()

	f := &tripFixture{
		geocoder: &fakeGeocoder{},
		planner: &gatedPlanner{path: &entity.RoutePath{
			Geometry:    orb.LineString{{2.3522, 48.8566}, {4.8357, 45.764}},
			DistanceKm:  465.0,
			DurationMin: 276,
		}},
		enricher: &fakeEnricher{},
		repo:     newMemoryRouteRepo(),
		userID:   uuid.New(),
	}
	f.svc = NewTripService(nil, f.geocoder, f.planner, f.enricher, f.repo, newDiscardLogger())

	return f
}

func (f *tripFixture) snapshot(t *testing.T) *usecase.TripSnapshot {
	t.Helper()

	snapshot, err := f.svc.Snapshot(context.Background(), f.userID)
	require.NoError(t, err)

	return snapshot
}

func (f *tripFixture) addWaypoint(t *testing.T, lat, lng float64) *entity.Waypoint {
	t.Helper()

	waypoint, err := f.svc.AddWaypoint(context.Background(), f.userID, entity.Coordinate{Lat: lat, Lng: lng})
	require.NoError(t, err)

	return waypoint
}

func (f *tripFixture) waitRouteReady(t *testing.T) *usecase.TripSnapshot {
	t.Helper()

	var snapshot *usecase.TripSnapshot
	require.Eventually(t, func() bool {
		snapshot = f.snapshot(t)

		return snapshot.Summary.Status == entity.RouteReady
	}, time.Second, 5*time.Millisecond)

	return snapshot
}

func TestAddWaypointRejectsInvalidCoordinate(t *testing.T) {
	f := newTripFixture(t)

	_, err := f.svc.AddWaypoint(context.Background(), f.userID, entity.Coordinate{Lat: 91, Lng: 0})

	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestSingleWaypointHasNoRoute(t *testing.T) {
	f := newTripFixture(t)

	waypoint := f.addWaypoint(t, 48.8566, 2.3522)
	assert.Equal(t, "48.856600, 2.352200", waypoint.Address)

	snapshot := f.snapshot(t)
	assert.Equal(t, entity.RouteAbsent, snapshot.Summary.Status)
	assert.Equal(t, usecase.RouteLineNone, snapshot.RouteLine)
	assert.Len(t, snapshot.Markers, 1)
	assert.Zero(t, f.planner.callCount())
}

func TestTwoWaypointsProduceRoute(t *testing.T) {
	f := newTripFixture(t)

	f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 45.764, 4.8357)

	snapshot := f.waitRouteReady(t)
	assert.InDelta(t, 465.0, snapshot.Summary.TotalDistanceKm, 1e-9)
	assert.InDelta(t, 276, snapshot.Summary.TotalDurationMin, 1e-9)
	assert.Equal(t, usecase.RouteLineDisplayed, snapshot.RouteLine)
	require.Len(t, snapshot.Path, 2)
	assert.InDelta(t, 48.8566, snapshot.Path[0].Lat, 1e-9)

	// The engine received the exact coordinates, not rounded copies.
	require.Equal(t, 1, f.planner.callCount())
	assert.Equal(t, entity.Coordinate{Lat: 48.8566, Lng: 2.3522}, f.planner.calls[0][0])
}

func TestAddressBackfill(t *testing.T) {
	f := newTripFixture(t)
	position := entity.Coordinate{Lat: 48.8566, Lng: 2.3522}
	f.geocoder.reverseBy = map[string]string{position.FallbackAddress(): "Paris, France"}

	waypoint := f.addWaypoint(t, position.Lat, position.Lng)
	assert.Equal(t, position.FallbackAddress(), waypoint.Address)

	require.Eventually(t, func() bool {
		snapshot := f.snapshot(t)

		return len(snapshot.Waypoints) == 1 && snapshot.Waypoints[0].Address == "Paris, France"
	}, time.Second, 5*time.Millisecond)

	// The marker label follows the resolved address.
	snapshot := f.snapshot(t)
	assert.Equal(t, "Paris, France", snapshot.Markers[0].Label)
}

func TestBackfillDroppedAfterRemoval(t *testing.T) {
	f := newTripFixture(t)
	f.geocoder.reverseGate = make(chan struct{})
	position := entity.Coordinate{Lat: 48.8566, Lng: 2.3522}
	f.geocoder.reverseBy = map[string]string{position.FallbackAddress(): "Paris, France"}

	waypoint := f.addWaypoint(t, position.Lat, position.Lng)
	require.NoError(t, f.svc.RemoveWaypoint(context.Background(), f.userID, waypoint.ID))

	close(f.geocoder.reverseGate)

	// The late resolution must not resurrect the waypoint.
	time.Sleep(50 * time.Millisecond)
	snapshot := f.snapshot(t)
	assert.Empty(t, snapshot.Waypoints)
	assert.Empty(t, snapshot.Markers)
}

func TestHoverDoesNotRecompute(t *testing.T) {
	f := newTripFixture(t)

	first := f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 45.764, 4.8357)
	f.waitRouteReady(t)
	calls := f.planner.callCount()

	view, err := f.svc.SetHover(context.Background(), f.userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Coordinate{Lat: 48.8566, Lng: 2.3522}, view.Center)

	snapshot := f.snapshot(t)
	assert.True(t, snapshot.Markers[0].Emphasized)
	assert.Equal(t, calls, f.planner.callCount())

	// Clearing the hover keeps the zoom and emphasizes nothing.
	view, err = f.svc.SetHover(context.Background(), f.userID, "")
	require.NoError(t, err)
	assert.Equal(t, snapshot.View.Zoom, view.Zoom)
	for _, marker := range f.snapshot(t).Markers {
		assert.False(t, marker.Emphasized)
	}

	_, err = f.svc.SetHover(context.Background(), f.userID, "no-such-marker")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestLatestRouteRequestWins(t *testing.T) {
	f := newTripFixture(t)
	f.planner.gate = make(chan struct{})
	f.planner.pathFor = func(stops []entity.Coordinate) *entity.RoutePath {
		return &entity.RoutePath{
			Geometry:    orb.LineString{{0, 0}},
			DistanceKm:  float64(len(stops)) * 100,
			DurationMin: float64(len(stops)) * 60,
		}
	}
	f.planner.path = nil

	f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 45.764, 4.8357)
	f.addWaypoint(t, 43.2965, 5.3698)

	// Two computations are now blocked: the two-stop one and the
	// three-stop one that superseded it.
	require.Eventually(t, func() bool { return f.planner.callCount() == 2 }, time.Second, 5*time.Millisecond)
	close(f.planner.gate)

	snapshot := f.waitRouteReady(t)
	assert.InDelta(t, 300, snapshot.Summary.TotalDistanceKm, 1e-9)
	assert.InDelta(t, 180, snapshot.Summary.TotalDurationMin, 1e-9)
}

func TestPlannerFailureLeavesNoRoute(t *testing.T) {
	f := newTripFixture(t)
	f.planner.err = assert.AnError
	f.planner.path = nil

	f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 45.764, 4.8357)

	require.Eventually(t, func() bool {
		snapshot := f.snapshot(t)

		return snapshot.RouteLine == usecase.RouteLineNone && f.planner.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, entity.RouteAbsent, f.snapshot(t).Summary.Status)
}

func TestCollapseToEndpoints(t *testing.T) {
	f := newTripFixture(t)

	require.ErrorIs(t, f.svc.CollapseToEndpoints(context.Background(), f.userID), ErrNotEnoughWaypoints)

	first := f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 47.0, 3.0)
	last := f.addWaypoint(t, 45.764, 4.8357)

	require.NoError(t, f.svc.CollapseToEndpoints(context.Background(), f.userID))

	snapshot := f.snapshot(t)
	require.Len(t, snapshot.Waypoints, 2)
	assert.Equal(t, first.ID, snapshot.Waypoints[0].ID)
	assert.Equal(t, last.ID, snapshot.Waypoints[1].ID)
}

func TestClearWaypoints(t *testing.T) {
	f := newTripFixture(t)
	f.enricher.result = &entity.EnrichmentResult{Narratives: []entity.LocationNarrative{{WaypointID: "x"}}}

	f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 45.764, 4.8357)
	_, err := f.svc.Enrich(context.Background(), f.userID)
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearWaypoints(context.Background(), f.userID))

	snapshot := f.snapshot(t)
	assert.Empty(t, snapshot.Waypoints)
	assert.Empty(t, snapshot.Markers)
	assert.Nil(t, snapshot.Enrichment)
	assert.Equal(t, usecase.RouteLineNone, snapshot.RouteLine)
	assert.Equal(t, entity.RouteAbsent, snapshot.Summary.Status)
}

func TestWaypointLimit(t *testing.T) {
	f := newTripFixture(t)
	cfg := &config.Config{Trip: &config.TripConfig{MaxWaypoints: 2}}
	f.svc = NewTripService(cfg, f.geocoder, f.planner, f.enricher, f.repo, newDiscardLogger())

	f.addWaypoint(t, 1, 1)
	f.addWaypoint(t, 2, 2)

	_, err := f.svc.AddWaypoint(context.Background(), f.userID, entity.Coordinate{Lat: 3, Lng: 3})
	assert.ErrorIs(t, err, ErrWaypointLimitReached)
}

func TestEnrichPopulatesSessionAndMarkers(t *testing.T) {
	f := newTripFixture(t)

	require.ErrorIs(t, errFromEnrich(f), ErrNotEnoughWaypoints)

	first := f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 45.764, 4.8357)

	f.enricher.result = &entity.EnrichmentResult{Narratives: []entity.LocationNarrative{{
		WaypointID: first.ID,
		PlacesOfInterest: []entity.PlaceOfInterest{
			{Name: "Louvre", Position: &entity.Coordinate{Lat: 48.8606, Lng: 2.3376}},
			{Name: "Ungeocoded", Position: nil},
		},
	}}}

	result, err := f.svc.Enrich(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, result.Narratives, 1)

	snapshot := f.snapshot(t)
	require.NotNil(t, snapshot.Enrichment)
	assert.False(t, snapshot.Enriching)

	// Two waypoint markers plus one marker for the geocoded place.
	require.Len(t, snapshot.Markers, 3)
	poi := snapshot.Markers[2]
	assert.Equal(t, usecase.MarkerKindPOI, poi.Kind)
	assert.Equal(t, "poi:0:0", poi.Key)
	assert.Equal(t, "Louvre", poi.Label)
}

func errFromEnrich(f *tripFixture) error {
	_, err := f.svc.Enrich(context.Background(), f.userID)

	return err
}

func TestStaleEnrichmentDoesNotTouchSession(t *testing.T) {
	f := newTripFixture(t)
	f.enricher.gate = make(chan struct{})
	f.enricher.result = &entity.EnrichmentResult{Narratives: []entity.LocationNarrative{{WaypointID: "stale"}}}

	f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 45.764, 4.8357)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Enrich(context.Background(), f.userID)
		done <- err
	}()

	require.Eventually(t, func() bool { return f.snapshot(t).Enriching }, time.Second, 5*time.Millisecond)

	// Clearing the session supersedes the in-flight enrichment.
	require.NoError(t, f.svc.ClearWaypoints(context.Background(), f.userID))
	close(f.enricher.gate)
	require.NoError(t, <-done)

	snapshot := f.snapshot(t)
	assert.Nil(t, snapshot.Enrichment)
	assert.Empty(t, snapshot.Markers)
}

func TestRemoveWaypointKeepsOrphanedNarrative(t *testing.T) {
	f := newTripFixture(t)

	first := f.addWaypoint(t, 48.8566, 2.3522)
	f.addWaypoint(t, 45.764, 4.8357)

	f.enricher.result = &entity.EnrichmentResult{Narratives: []entity.LocationNarrative{{
		WaypointID:       first.ID,
		PlacesOfInterest: []entity.PlaceOfInterest{{Name: "Louvre", Position: &entity.Coordinate{Lat: 48.8606, Lng: 2.3376}}},
	}}}
	_, err := f.svc.Enrich(context.Background(), f.userID)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveWaypoint(context.Background(), f.userID, first.ID))

	snapshot := f.snapshot(t)
	require.NotNil(t, snapshot.Enrichment)
	assert.Equal(t, first.ID, snapshot.Enrichment.Narratives[0].WaypointID)

	// The POI marker survives; only the waypoint marker is gone.
	require.Len(t, snapshot.Markers, 2)
	assert.Equal(t, usecase.MarkerKindWaypoint, snapshot.Markers[0].Kind)
	assert.Equal(t, usecase.MarkerKindPOI, snapshot.Markers[1].Kind)
}

func TestLoadRoute(t *testing.T) {
	f := newTripFixture(t)

	saved := &entity.SavedRoute{
		OwnerID: f.userID,
		Name:    "Summer trip",
		Waypoints: []entity.Waypoint{
			{ID: "wp-1", Position: entity.Coordinate{Lat: 48.8566, Lng: 2.3522}, Address: "Paris"},
			{ID: "wp-2", Position: entity.Coordinate{Lat: 45.764, Lng: 4.8357}, Address: "Lyon"},
		},
		Enrichment: &entity.EnrichmentResult{Narratives: []entity.LocationNarrative{{WaypointID: "wp-1"}}},
	}
	require.NoError(t, f.repo.CreateRoute(context.Background(), saved))

	require.NoError(t, f.svc.LoadRoute(context.Background(), f.userID, saved.ID))

	snapshot := f.waitRouteReady(t)
	require.Len(t, snapshot.Waypoints, 2)
	assert.Equal(t, "wp-1", snapshot.Waypoints[0].ID)
	require.NotNil(t, snapshot.Enrichment)
	assert.Equal(t, 1, f.planner.callCount())

	// Reloading the identical coordinate sequence does not recompute.
	require.NoError(t, f.svc.LoadRoute(context.Background(), f.userID, saved.ID))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.planner.callCount())
	assert.Equal(t, usecase.RouteLineDisplayed, f.snapshot(t).RouteLine)
}

func TestLoadRouteOwnerScoped(t *testing.T) {
	f := newTripFixture(t)

	saved := &entity.SavedRoute{
		OwnerID:   uuid.New(),
		Name:      "Someone else's trip",
		Waypoints: []entity.Waypoint{{ID: "a"}, {ID: "b"}},
	}
	require.NoError(t, f.repo.CreateRoute(context.Background(), saved))

	err := f.svc.LoadRoute(context.Background(), f.userID, saved.ID)
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	f := newTripFixture(t)
	otherUser := uuid.New()

	f.addWaypoint(t, 48.8566, 2.3522)

	other, err := f.svc.Snapshot(context.Background(), otherUser)
	require.NoError(t, err)
	assert.Empty(t, other.Waypoints)
	assert.Len(t, f.snapshot(t).Waypoints, 1)
}
