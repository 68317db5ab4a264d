package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"itinero/internal/delivery/http/response"
	"itinero/internal/domain/entity"
	"itinero/internal/usecase"
	"itinero/internal/usecase/impl"
	"itinero/internal/util"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/fx"
)

// TripHandlerParams holds dependencies for TripHandler, injected by Fx.
type TripHandlerParams struct {
	fx.In

	TripUC usecase.TripUsecase
	Logger *slog.Logger
}

// TripHandler holds dependencies for trip-session handlers
type TripHandler struct {
	tripUC usecase.TripUsecase
	logger *slog.Logger
}

// NewTripHandler is the constructor for TripHandler
func NewTripHandler(params TripHandlerParams) *TripHandler {
	return &TripHandler{
		tripUC: params.TripUC,
		logger: params.Logger,
	}
}

// AddWaypointRequest represents the request body for placing a waypoint
type AddWaypointRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// HoverRequest represents the request body for emphasizing a marker.
// An empty key clears the emphasis.
type HoverRequest struct {
	MarkerKey string `json:"markerKey"`
}

// TripSnapshotResponse decorates the snapshot with a display-ready
// duration string.
type TripSnapshotResponse struct {
	*usecase.TripSnapshot
	DurationDisplay string `json:"durationDisplay"`
}

// GetSnapshot returns the full displayable state of the caller's session
func (h *TripHandler) GetSnapshot(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	snapshot, err := h.tripUC.Snapshot(c.Request().Context(), userID)
	if err != nil {
		return h.handleTripError(c, err)
	}

	return response.Success(c, http.StatusOK, TripSnapshotResponse{
		TripSnapshot:    snapshot,
		DurationDisplay: util.FormatRouteMinutes(snapshot.Summary.TotalDurationMin),
	}, "Trip snapshot retrieved successfully")
}

// AddWaypoint places a new waypoint at the given position
func (h *TripHandler) AddWaypoint(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	var req AddWaypointRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid waypoint input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	waypoint, err := h.tripUC.AddWaypoint(c.Request().Context(), userID, entity.Coordinate{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		return h.handleTripError(c, err)
	}

	return response.Success(c, http.StatusCreated, waypoint, "Waypoint added successfully")
}

// RemoveWaypoint deletes one waypoint by id
func (h *TripHandler) RemoveWaypoint(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	waypointID := c.Param("id")
	if waypointID == "" {
		return response.BadRequest(c, "INVALID_ID", "Invalid waypoint ID")
	}

	if err := h.tripUC.RemoveWaypoint(c.Request().Context(), userID, waypointID); err != nil {
		return h.handleTripError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Waypoint removed successfully"}, "Waypoint removed successfully")
}

// ClearWaypoints empties the caller's session
func (h *TripHandler) ClearWaypoints(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	if err := h.tripUC.ClearWaypoints(c.Request().Context(), userID); err != nil {
		return h.handleTripError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Trip cleared successfully"}, "Trip cleared successfully")
}

// Collapse reduces the itinerary to its first and last waypoints
func (h *TripHandler) Collapse(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	if err := h.tripUC.CollapseToEndpoints(c.Request().Context(), userID); err != nil {
		return h.handleTripError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Trip collapsed to endpoints"}, "Trip collapsed to endpoints")
}

// Hover emphasizes a marker and recenters the view on it
func (h *TripHandler) Hover(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	var req HoverRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid hover input")
	}

	view, err := h.tripUC.SetHover(c.Request().Context(), userID, req.MarkerKey)
	if err != nil {
		return h.handleTripError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Hover updated successfully")
}

// Enrich runs the narrative pipeline over the current waypoints
func (h *TripHandler) Enrich(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	result, err := h.tripUC.Enrich(c.Request().Context(), userID)
	if err != nil {
		return h.handleTripError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Trip enriched successfully")
}

// LoadRoute restores a saved route into the caller's session
func (h *TripHandler) LoadRoute(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	if err := h.tripUC.LoadRoute(c.Request().Context(), userID, routeID); err != nil {
		return h.handleTripError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Route loaded successfully"}, "Route loaded successfully")
}

// getUserID extracts the user ID from the context
func (h *TripHandler) getUserID(c echo.Context) (uuid.UUID, error) {
	userIDVal := c.Get("userID")
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	return userID, nil
}

// handleTripError maps usecase errors onto API responses
func (h *TripHandler) handleTripError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, impl.ErrInvalidCoordinate):
		return response.BadRequest(c, "INVALID_COORDINATE", err.Error())
	case errors.Is(err, impl.ErrNotEnoughWaypoints):
		return response.BadRequest(c, "NOT_ENOUGH_WAYPOINTS", err.Error())
	case errors.Is(err, impl.ErrWaypointLimitReached):
		return response.Conflict(c, "WAYPOINT_LIMIT_REACHED", err.Error())
	case errors.Is(err, impl.ErrWaypointNotFound):
		return response.NotFound(c, "WAYPOINT_NOT_FOUND", err.Error())
	case errors.Is(err, impl.ErrMarkerNotFound):
		return response.NotFound(c, "MARKER_NOT_FOUND", err.Error())
	case errors.Is(err, impl.ErrRouteNotFound):
		return response.NotFound(c, "ROUTE_NOT_FOUND", err.Error())
	case errors.Is(err, impl.ErrNarrativeMalformed):
		return response.BadGateway(c, "ENRICHMENT_MALFORMED", err.Error())
	case errors.Is(err, impl.ErrNarrativeCountMismatch):
		return response.BadGateway(c, "ENRICHMENT_MISMATCH", err.Error())
	}

	return pkgerrors.WithStack(err)
}
