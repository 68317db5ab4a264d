package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"itinero/internal/delivery/http/validator"
	"itinero/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	address  string
	position *entity.Coordinate
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, position entity.Coordinate) string {
	if s.address != "" {
		return s.address
	}

	return position.FallbackAddress()
}

func (s *stubGeocoder) ForwardGeocode(_ context.Context, _ string) *entity.Coordinate {
	return s.position
}

func newGeocodingContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newHandler(geocoder *stubGeocoder) *GeocodingHandler {
	return NewGeocodingHandler(GeocodingHandlerParams{
		Geocoder: geocoder,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestReverseGeocodeEndpoint(t *testing.T) {
	t.Run("returns resolved address", func(t *testing.T) {
		c, rec := newGeocodingContext(t, "/geocoding/reverse?lat=51.5034&lng=-0.1276")
		h := newHandler(&stubGeocoder{address: "10 Downing Street"})

		require.NoError(t, h.ReverseGeocode(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool `json:"success"`
			Data    struct {
				Address string `json:"address"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "10 Downing Street", body.Data.Address)
	})

	t.Run("rejects out-of-range latitude", func(t *testing.T) {
		c, rec := newGeocodingContext(t, "/geocoding/reverse?lat=95&lng=0")
		h := newHandler(&stubGeocoder{})

		require.NoError(t, h.ReverseGeocode(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestForwardGeocodeEndpoint(t *testing.T) {
	t.Run("returns candidate when found", func(t *testing.T) {
		c, rec := newGeocodingContext(t, "/geocoding/forward?address=Eiffel+Tower")
		h := newHandler(&stubGeocoder{position: &entity.Coordinate{Lat: 48.85837, Lng: 2.294481}})

		require.NoError(t, h.ForwardGeocode(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data struct {
				Found    bool               `json:"found"`
				Position *entity.Coordinate `json:"latlng"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Data.Found)
		require.NotNil(t, body.Data.Position)
		assert.InDelta(t, 48.85837, body.Data.Position.Lat, 1e-9)
	})

	t.Run("empty answer is not an error", func(t *testing.T) {
		c, rec := newGeocodingContext(t, "/geocoding/forward?address=nowhere")
		h := newHandler(&stubGeocoder{})

		require.NoError(t, h.ForwardGeocode(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data struct {
				Found bool `json:"found"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Data.Found)
	})

	t.Run("requires an address parameter", func(t *testing.T) {
		c, rec := newGeocodingContext(t, "/geocoding/forward")
		h := newHandler(&stubGeocoder{})

		require.NoError(t, h.ForwardGeocode(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
