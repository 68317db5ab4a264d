// Package nominatim implements the Geocoder interface against a
// Nominatim-compatible HTTP provider.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"itinero/config"
	"itinero/internal/domain/entity"
	"itinero/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "itinero/1.0"
	defaultTimeout   = 10 * time.Second

	// unknownLocation is returned when the provider answers successfully
	// but without a display name.
	unknownLocation = "Unknown location"
)

type client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Nominatim-backed Geocoder.
func New(cfg *config.GeocodingConfig, logger *slog.Logger) service.Geocoder {
	baseURL := defaultBaseURL
	userAgent := defaultUserAgent
	timeout := defaultTimeout

	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
		if cfg.UserAgent != "" {
			userAgent = cfg.UserAgent
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}

	return &client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ReverseGeocode resolves a coordinate to its display name. Any failure
// degrades to the deterministic coordinate fallback string.
func (c *client) ReverseGeocode(ctx context.Context, position entity.Coordinate) string {
	address, err := c.reverse(ctx, position)
	if err != nil {
		c.logger.Warn("reverse geocode failed, using coordinate fallback",
			slog.Float64("lat", position.Lat),
			slog.Float64("lng", position.Lng),
			slog.Any("error", err),
		)

		return position.FallbackAddress()
	}

	return address
}

// ForwardGeocode resolves an address to the first candidate coordinate.
// Any failure, or an empty result set, yields nil.
func (c *client) ForwardGeocode(ctx context.Context, address string) *entity.Coordinate {
	if strings.TrimSpace(address) == "" {
		return nil
	}

	position, err := c.forward(ctx, address)
	if err != nil {
		c.logger.Warn("forward geocode failed",
			slog.String("address", address),
			slog.Any("error", err),
		)

		return nil
	}

	return position
}

func (c *client) reverse(ctx context.Context, position entity.Coordinate) (string, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(position.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(position.Lng, 'f', -1, 64))
	query.Set("zoom", "18")
	query.Set("addressdetails", "1")

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.get(ctx, "/reverse", query, &payload); err != nil {
		return "", err
	}

	if payload.DisplayName == "" {
		return unknownLocation, nil
	}

	return payload.DisplayName, nil
}

func (c *client) forward(ctx context.Context, address string) (*entity.Coordinate, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("q", address)
	query.Set("limit", "1")

	// Nominatim encodes candidate coordinates as strings.
	var candidates []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := c.get(ctx, "/search", query, &candidates); err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, errors.Errorf("no geocoding candidates for %q", address)
	}

	lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parse candidate latitude")
	}
	lng, err := strconv.ParseFloat(candidates[0].Lon, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parse candidate longitude")
	}

	return &entity.Coordinate{Lat: lat, Lng: lng}, nil
}

func (c *client) get(ctx context.Context, path string, query url.Values, target any) error {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("geocoding provider returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrap(err, "decode geocoding response")
	}

	return nil
}
