package impl

import (
	"fmt"
	"sort"

	"itinero/internal/domain/entity"
	"itinero/internal/usecase"
)

// poiKey addresses a place-of-interest marker by its position inside the
// enrichment result. POI markers have no identity of their own, so they are
// rebuilt wholesale whenever the enrichment changes.
type poiKey struct {
	narrative int
	place     int
}

func (k poiKey) String() string {
	return fmt.Sprintf("poi:%d:%d", k.narrative, k.place)
}

// markerBoard reconciles the two marker populations against their sources
// of truth. Waypoint markers are diffed by waypoint id so unrelated markers
// are never touched; POI markers are replaced as a set. The board never
// performs I/O.
type markerBoard struct {
	waypointOrder   []string
	waypointMarkers map[string]*usecase.Marker
	poiMarkers      map[poiKey]*usecase.Marker
	hoverKey        string
}

func newMarkerBoard() *markerBoard {
	return &markerBoard{
		waypointMarkers: make(map[string]*usecase.Marker),
		poiMarkers:      make(map[poiKey]*usecase.Marker),
	}
}

// syncWaypoints brings the waypoint markers in line with the waypoint list.
// Markers for surviving waypoints are updated in place; POI markers are
// deliberately left alone.
func (b *markerBoard) syncWaypoints(waypoints []entity.Waypoint) {
	alive := make(map[string]struct{}, len(waypoints))
	order := make([]string, 0, len(waypoints))

	for _, waypoint := range waypoints {
		alive[waypoint.ID] = struct{}{}
		order = append(order, waypoint.ID)

		if marker, ok := b.waypointMarkers[waypoint.ID]; ok {
			marker.Position = waypoint.Position
			marker.Label = waypoint.Address

			continue
		}

		b.waypointMarkers[waypoint.ID] = &usecase.Marker{
			Key:      waypoint.ID,
			Kind:     usecase.MarkerKindWaypoint,
			Position: waypoint.Position,
			Label:    waypoint.Address,
		}
	}

	for id := range b.waypointMarkers {
		if _, ok := alive[id]; !ok {
			delete(b.waypointMarkers, id)
			if b.hoverKey == id {
				b.hoverKey = ""
			}
		}
	}

	b.waypointOrder = order
}

// syncPOIs rebuilds the POI marker set from an enrichment result. Only
// places with a resolved position get a marker; ungeocoded places remain
// list-only entries.
func (b *markerBoard) syncPOIs(result *entity.EnrichmentResult) {
	for key := range b.poiMarkers {
		if b.hoverKey == key.String() {
			b.hoverKey = ""
		}
		delete(b.poiMarkers, key)
	}

	if result == nil {
		return
	}

	for n, narrative := range result.Narratives {
		for p, place := range narrative.PlacesOfInterest {
			if place.Position == nil {
				continue
			}

			key := poiKey{narrative: n, place: p}
			b.poiMarkers[key] = &usecase.Marker{
				Key:      key.String(),
				Kind:     usecase.MarkerKindPOI,
				Position: *place.Position,
				Label:    place.Name,
			}
		}
	}
}

// setHover emphasizes one marker and returns its position so the caller
// can recenter the view. An empty key clears the emphasis and returns nil.
// Unknown keys leave the board unchanged.
func (b *markerBoard) setHover(key string) (*entity.Coordinate, bool) {
	if key == "" {
		b.hoverKey = ""

		return nil, true
	}

	marker := b.lookup(key)
	if marker == nil {
		return nil, false
	}

	b.hoverKey = key
	position := marker.Position

	return &position, true
}

func (b *markerBoard) lookup(key string) *usecase.Marker {
	if marker, ok := b.waypointMarkers[key]; ok {
		return marker
	}
	for poi, marker := range b.poiMarkers {
		if poi.String() == key {
			return marker
		}
	}

	return nil
}

// markers returns a stable ordering: waypoint markers in itinerary order,
// then POI markers in narrative order.
func (b *markerBoard) markers() []usecase.Marker {
	out := make([]usecase.Marker, 0, len(b.waypointMarkers)+len(b.poiMarkers))

	for _, id := range b.waypointOrder {
		if marker, ok := b.waypointMarkers[id]; ok {
			copied := *marker
			copied.Emphasized = b.hoverKey == marker.Key
			out = append(out, copied)
		}
	}

	poiKeys := make([]poiKey, 0, len(b.poiMarkers))
	for key := range b.poiMarkers {
		poiKeys = append(poiKeys, key)
	}
	sort.Slice(poiKeys, func(i, j int) bool {
		if poiKeys[i].narrative != poiKeys[j].narrative {
			return poiKeys[i].narrative < poiKeys[j].narrative
		}

		return poiKeys[i].place < poiKeys[j].place
	})
	for _, key := range poiKeys {
		copied := *b.poiMarkers[key]
		copied.Emphasized = b.hoverKey == copied.Key
		out = append(out, copied)
	}

	return out
}

// reset clears both marker populations and the hover state.
func (b *markerBoard) reset() {
	b.waypointOrder = nil
	b.waypointMarkers = make(map[string]*usecase.Marker)
	b.poiMarkers = make(map[poiKey]*usecase.Marker)
	b.hoverKey = ""
}
