package handler

import (
	"log/slog"
	"net/http"

	"itinero/internal/delivery/http/response"
	"itinero/internal/domain/entity"
	"itinero/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// GeocodingHandlerParams holds dependencies for GeocodingHandler, injected by Fx.
type GeocodingHandlerParams struct {
	fx.In

	Geocoder service.Geocoder
	Logger   *slog.Logger
}

// GeocodingHandler exposes the geocoding gateway directly, mainly for the
// map frontend's address search box.
type GeocodingHandler struct {
	geocoder service.Geocoder
	logger   *slog.Logger
}

// NewGeocodingHandler is the constructor for GeocodingHandler
func NewGeocodingHandler(params GeocodingHandlerParams) *GeocodingHandler {
	return &GeocodingHandler{
		geocoder: params.Geocoder,
		logger:   params.Logger,
	}
}

// ReverseGeocodeRequest represents the query for a reverse lookup
type ReverseGeocodeRequest struct {
	Lat float64 `query:"lat" validate:"min=-90,max=90"`
	Lng float64 `query:"lng" validate:"min=-180,max=180"`
}

// ForwardGeocodeRequest represents the query for a forward lookup
type ForwardGeocodeRequest struct {
	Address string `query:"address" validate:"required"`
}

// ReverseGeocodeResponse carries the resolved address for a coordinate
type ReverseGeocodeResponse struct {
	Address string `json:"address"`
}

// ForwardGeocodeResponse carries the first candidate for an address, if any
type ForwardGeocodeResponse struct {
	Position *entity.Coordinate `json:"latlng"`
	Found    bool               `json:"found"`
}

// ReverseGeocode handles coordinate-to-address lookups. It always answers
// 200: failures degrade to the coordinate fallback string.
func (h *GeocodingHandler) ReverseGeocode(c echo.Context) error {
	var req ReverseGeocodeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid coordinate input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	address := h.geocoder.ReverseGeocode(c.Request().Context(), entity.Coordinate{Lat: req.Lat, Lng: req.Lng})

	return response.Success(c, http.StatusOK, ReverseGeocodeResponse{Address: address}, "Address resolved")
}

// ForwardGeocode handles address-to-coordinate lookups. An unresolvable
// address is a valid empty answer, not an error.
func (h *GeocodingHandler) ForwardGeocode(c echo.Context) error {
	var req ForwardGeocodeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	position := h.geocoder.ForwardGeocode(c.Request().Context(), req.Address)

	return response.Success(c, http.StatusOK, ForwardGeocodeResponse{
		Position: position,
		Found:    position != nil,
	}, "Address lookup completed")
}
