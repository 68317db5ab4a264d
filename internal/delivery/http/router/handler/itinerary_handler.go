package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"itinero/internal/delivery/http/response"
	"itinero/internal/domain/entity"
	"itinero/internal/domain/service"
	"itinero/internal/usecase"
	"itinero/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/fx"
)

// ItineraryHandlerParams holds dependencies for ItineraryHandler, injected by Fx.
type ItineraryHandlerParams struct {
	fx.In

	ItineraryUC usecase.ItineraryUsecase
	QRCodeSvc   service.QRCodeService
	Logger      *slog.Logger
}

// ItineraryHandler holds dependencies for saved-route handlers
type ItineraryHandler struct {
	itineraryUC usecase.ItineraryUsecase
	qrcodeSvc   service.QRCodeService
	logger      *slog.Logger
}

// NewItineraryHandler is the constructor for ItineraryHandler
func NewItineraryHandler(params ItineraryHandlerParams) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryUC: params.ItineraryUC,
		qrcodeSvc:   params.QRCodeSvc,
		logger:      params.Logger,
	}
}

// SaveRouteRequest represents the request body for saving a route
type SaveRouteRequest struct {
	Name       string                   `json:"name" validate:"required"`
	Waypoints  []entity.Waypoint        `json:"waypoints" validate:"required,min=2"`
	Enrichment *entity.EnrichmentResult `json:"enrichment,omitempty"`
}

// SaveRoute persists the submitted itinerary under the caller
func (h *ItineraryHandler) SaveRoute(c echo.Context) error {
	ownerID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	var req SaveRouteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid route input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := &usecase.SaveRouteInput{
		Name:       req.Name,
		Waypoints:  req.Waypoints,
		Enrichment: req.Enrichment,
	}

	route, err := h.itineraryUC.SaveRoute(c.Request().Context(), ownerID, input)
	if err != nil {
		return h.handleItineraryError(c, err)
	}

	return response.Success(c, http.StatusCreated, route, "Route saved successfully")
}

// ListRoutes retrieves all routes saved by the caller
func (h *ItineraryHandler) ListRoutes(c echo.Context) error {
	ownerID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routes, err := h.itineraryUC.ListRoutes(c.Request().Context(), ownerID)
	if err != nil {
		return h.handleItineraryError(c, err)
	}

	return response.Success(c, http.StatusOK, routes, "Routes retrieved successfully")
}

// GetRoute retrieves one saved route by id
func (h *ItineraryHandler) GetRoute(c echo.Context) error {
	ownerID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	route, err := h.itineraryUC.GetRoute(c.Request().Context(), routeID, ownerID)
	if err != nil {
		return h.handleItineraryError(c, err)
	}

	return response.Success(c, http.StatusOK, route, "Route retrieved successfully")
}

// DeleteRoute removes one saved route by id
func (h *ItineraryHandler) DeleteRoute(c echo.Context) error {
	ownerID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	deleted, err := h.itineraryUC.DeleteRoute(c.Request().Context(), routeID, ownerID)
	if err != nil {
		return h.handleItineraryError(c, err)
	}
	if !deleted {
		return response.NotFound(c, "ROUTE_NOT_FOUND", "Route not found")
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Route deleted successfully"}, "Route deleted successfully")
}

// GetRouteQR renders a PNG QR code for sharing one saved route
func (h *ItineraryHandler) GetRouteQR(c echo.Context) error {
	ownerID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	// Confirm the route exists and belongs to the caller before encoding.
	if _, err := h.itineraryUC.GetRoute(c.Request().Context(), routeID, ownerID); err != nil {
		return h.handleItineraryError(c, err)
	}

	png, err := h.qrcodeSvc.GenerateRouteShareQR(routeID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to generate route QR code")
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// getUserID extracts the user ID from the context
func (h *ItineraryHandler) getUserID(c echo.Context) (uuid.UUID, error) {
	userIDVal := c.Get("userID")
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	return userID, nil
}

// handleItineraryError maps usecase errors onto API responses
func (h *ItineraryHandler) handleItineraryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, impl.ErrRouteNotFound):
		return response.NotFound(c, "ROUTE_NOT_FOUND", err.Error())
	case errors.Is(err, impl.ErrRouteNameRequired):
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, impl.ErrNotEnoughWaypoints):
		return response.BadRequest(c, "NOT_ENOUGH_WAYPOINTS", err.Error())
	case errors.Is(err, impl.ErrUnauthorized):
		return response.Unauthorized(c, "UNAUTHORIZED", err.Error())
	}

	return pkgerrors.WithStack(err)
}
