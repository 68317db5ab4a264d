package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"itinero/internal/domain/entity"
	"itinero/internal/domain/service"
	"itinero/internal/usecase"
)

var (
	// ErrNotEnoughWaypoints is returned when an operation needs at least two waypoints
	ErrNotEnoughWaypoints = errors.New("at least two waypoints are required")
	// ErrNarrativeMalformed is returned when the narrative backend output cannot be parsed
	ErrNarrativeMalformed = errors.New("narrative backend returned a malformed response")
	// ErrNarrativeCountMismatch is returned when the backend does not answer one result per address
	ErrNarrativeCountMismatch = errors.New("narrative backend did not return one result per address")
)

type enrichmentService struct {
	narrator service.Narrator
	geocoder service.Geocoder
	logger   *slog.Logger
}

// NewEnrichmentService creates a new enrichment service instance
func NewEnrichmentService(narrator service.Narrator, geocoder service.Geocoder, logger *slog.Logger) usecase.EnrichmentUsecase {
	return &enrichmentService{
		narrator: narrator,
		geocoder: geocoder,
		logger:   logger,
	}
}

// Enrich generates one narrative per waypoint and geocodes the suggested
// places. Place geocoding is strictly sequential and failure-isolated: a
// place whose address cannot be resolved keeps a nil position while the
// rest of the result is retained.
func (s *enrichmentService) Enrich(ctx context.Context, waypoints []entity.Waypoint) (*entity.EnrichmentResult, error) {
	if len(waypoints) < 2 {
		return nil, ErrNotEnoughWaypoints
	}

	addresses := make([]string, 0, len(waypoints))
	for _, waypoint := range waypoints {
		addresses = append(addresses, waypoint.Address)
	}

	sketches, err := s.narrator.Describe(ctx, addresses)
	if err != nil {
		if errors.Is(err, service.ErrMalformedNarrative) {
			return nil, ErrNarrativeMalformed
		}

		return nil, fmt.Errorf("failed to describe addresses: %w", err)
	}

	// The contract is one result per address, in order. Anything else means
	// the narratives cannot be matched back to their waypoints.
	if len(sketches) != len(waypoints) {
		s.logger.Warn("narrative count mismatch",
			slog.Int("requested", len(waypoints)),
			slog.Int("received", len(sketches)),
		)

		return nil, ErrNarrativeCountMismatch
	}

	result := &entity.EnrichmentResult{
		Narratives: make([]entity.LocationNarrative, 0, len(sketches)),
	}

	for i, sketch := range sketches {
		originAddress := sketch.Address
		if originAddress == "" {
			originAddress = waypoints[i].Address
		}

		narrative := entity.LocationNarrative{
			WaypointID:       waypoints[i].ID,
			OriginAddress:    originAddress,
			Introduction:     sketch.Introduction,
			EstablishedDate:  sketch.CreationDate,
			PlacesOfInterest: make([]entity.PlaceOfInterest, 0, len(sketch.PlacesToVisit)),
		}

		for _, place := range sketch.PlacesToVisit {
			narrative.PlacesOfInterest = append(narrative.PlacesOfInterest, entity.PlaceOfInterest{
				Name:     place.Name,
				Address:  place.Address,
				Context:  place.Context,
				Paid:     entity.NormalizePaidStatus(place.Paid),
				Position: s.geocoder.ForwardGeocode(ctx, place.Address),
			})
		}

		result.Narratives = append(result.Narratives, narrative)
	}

	return result, nil
}
