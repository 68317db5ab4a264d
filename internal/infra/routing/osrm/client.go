// Package osrm implements the RoutePlanner interface against an
// OSRM-compatible routing engine.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"itinero/config"
	"itinero/internal/domain/entity"
	"itinero/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://router.project-osrm.org"
	defaultProfile = "driving"
	defaultTimeout = 15 * time.Second
)

type client struct {
	baseURL    string
	profile    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an OSRM-backed RoutePlanner.
func New(cfg *config.RoutingConfig, logger *slog.Logger) service.RoutePlanner {
	baseURL := defaultBaseURL
	profile := defaultProfile
	timeout := defaultTimeout

	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
		if cfg.Profile != "" {
			profile = cfg.Profile
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}

	return &client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		profile:    profile,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type routeResponse struct {
	Routes []struct {
		Summary struct {
			TotalDistance float64 `json:"totalDistance"`
			TotalTime     float64 `json:"totalTime"`
		} `json:"summary"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// PlanRoute requests a driving route through the given stops in order and
// returns the engine's first alternative.
func (c *client) PlanRoute(ctx context.Context, stops []entity.Coordinate) (*entity.RoutePath, error) {
	if len(stops) < 2 {
		return nil, errors.New("route planning requires at least two stops")
	}

	endpoint := c.routeURL(stops)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "routing engine unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("routing engine returned status %d", resp.StatusCode)
	}

	var payload routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode routing response")
	}

	if len(payload.Routes) == 0 {
		return nil, errors.New("routing engine returned no routes")
	}

	best := payload.Routes[0]

	geometry := make(orb.LineString, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, errors.New("malformed route geometry")
		}
		geometry = append(geometry, orb.Point{pair[0], pair[1]})
	}

	path := &entity.RoutePath{
		Geometry:    geometry,
		DistanceKm:  kilometres(best.Summary.TotalDistance),
		DurationMin: wholeMinutes(best.Summary.TotalTime),
	}

	c.logger.Debug("route planned",
		slog.Int("stops", len(stops)),
		slog.Float64("distance_km", path.DistanceKm),
		slog.Float64("duration_min", path.DurationMin),
	)

	return path, nil
}

func (c *client) routeURL(stops []entity.Coordinate) string {
	coords := make([]string, 0, len(stops))
	for _, stop := range stops {
		coords = append(coords,
			strconv.FormatFloat(stop.Lng, 'f', -1, 64)+","+strconv.FormatFloat(stop.Lat, 'f', -1, 64))
	}

	return fmt.Sprintf("%s/route/v1/%s/%s?alternatives=false&overview=full&geometries=geojson",
		c.baseURL, c.profile, strings.Join(coords, ";"))
}

// kilometres converts metres to kilometres rounded to one decimal place.
func kilometres(metres float64) float64 {
	return math.Round(metres/100) / 10
}

// wholeMinutes converts seconds to whole display minutes, truncating the
// hour and minute components separately.
func wholeMinutes(seconds float64) float64 {
	hours := math.Floor(seconds / 3600)
	minutes := math.Floor(math.Mod(seconds, 3600) / 60)

	return hours*60 + minutes
}
