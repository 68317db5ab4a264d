package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"itinero/internal/domain/entity"
	"itinero/internal/domain/repository"
	"itinero/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGeocoder answers from fixed maps and records forward lookups in
// order. A non-nil reverseGate blocks reverse lookups until released.
type fakeGeocoder struct {
	mu           sync.Mutex
	reverseBy    map[string]string
	forwardBy    map[string]*entity.Coordinate
	forwardCalls []string
	reverseGate  chan struct{}
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, position entity.Coordinate) string {
	f.mu.Lock()
	gate := f.reverseGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if address, ok := f.reverseBy[position.FallbackAddress()]; ok {
		return address
	}

	return position.FallbackAddress()
}

func (f *fakeGeocoder) ForwardGeocode(_ context.Context, address string) *entity.Coordinate {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.forwardCalls = append(f.forwardCalls, address)
	if position, ok := f.forwardBy[address]; ok && position != nil {
		copied := *position

		return &copied
	}

	return nil
}

// fakeNarrator returns a canned sketch list.
type fakeNarrator struct {
	sketches []service.NarrativeSketch
	err      error
	got      []string
}

func (f *fakeNarrator) Describe(_ context.Context, addresses []string) ([]service.NarrativeSketch, error) {
	f.got = addresses
	if f.err != nil {
		return nil, f.err
	}

	return f.sketches, nil
}

// gatedPlanner blocks each PlanRoute call until released, so tests control
// completion order. A nil gate answers immediately.
type gatedPlanner struct {
	mu      sync.Mutex
	calls   [][]entity.Coordinate
	gate    chan struct{}
	path    *entity.RoutePath
	pathFor func(stops []entity.Coordinate) *entity.RoutePath
	err     error
}

func (p *gatedPlanner) PlanRoute(_ context.Context, stops []entity.Coordinate) (*entity.RoutePath, error) {
	p.mu.Lock()
	p.calls = append(p.calls, stops)
	gate := p.gate
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if p.err != nil {
		return nil, p.err
	}
	if p.pathFor != nil {
		return p.pathFor(stops), nil
	}

	return p.path, nil
}

func (p *gatedPlanner) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.calls)
}

// fakeEnricher hands back a canned result. A non-nil gate blocks each call
// until released.
type fakeEnricher struct {
	mu     sync.Mutex
	result *entity.EnrichmentResult
	err    error
	got    []entity.Waypoint
	gate   chan struct{}
}

func (f *fakeEnricher) Enrich(_ context.Context, waypoints []entity.Waypoint) (*entity.EnrichmentResult, error) {
	f.mu.Lock()
	f.got = waypoints
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if f.err != nil {
		return nil, f.err
	}

	return f.result, nil
}

// memoryRouteRepo is an in-memory RouteRepository.
type memoryRouteRepo struct {
	mu     sync.Mutex
	routes map[uuid.UUID]*entity.SavedRoute
}

func newMemoryRouteRepo() *memoryRouteRepo {
	return &memoryRouteRepo{routes: make(map[uuid.UUID]*entity.SavedRoute)}
}

func (r *memoryRouteRepo) CreateRoute(_ context.Context, route *entity.SavedRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	route.ID = uuid.New()
	stored := *route
	r.routes[route.ID] = &stored

	return nil
}

func (r *memoryRouteRepo) FindRoutesByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.SavedRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.SavedRoute
	for _, route := range r.routes {
		if route.OwnerID == ownerID {
			copied := *route
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *memoryRouteRepo) FindRouteByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*entity.SavedRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[id]
	if !ok || route.OwnerID != ownerID {
		return nil, repository.ErrRouteNotFound
	}
	copied := *route

	return &copied, nil
}

func (r *memoryRouteRepo) DeleteRouteByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[id]
	if !ok || route.OwnerID != ownerID {
		return false, nil
	}
	delete(r.routes, id)

	return true, nil
}
