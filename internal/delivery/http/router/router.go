// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"itinero/internal/delivery/http/middleware"
	"itinero/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	GeocodingHandler *handler.GeocodingHandler
	TripHandler      *handler.TripHandler
	ItineraryHandler *handler.ItineraryHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	geocodingHandler *handler.GeocodingHandler
	tripHandler      *handler.TripHandler
	itineraryHandler *handler.ItineraryHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		geocodingHandler: params.GeocodingHandler,
		tripHandler:      params.TripHandler,
		itineraryHandler: params.ItineraryHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public geocoding lookups used by the map search box
	geocodingGroup := e.Group("/geocoding")
	{
		geocodingGroup.GET("/reverse", r.geocodingHandler.ReverseGeocode)
		geocodingGroup.GET("/forward", r.geocodingHandler.ForwardGeocode)
	}

	// Trip session routes require authentication
	tripGroup := e.Group("/trip")
	tripGroup.Use(r.authMiddleware.Authenticate)
	{
		tripGroup.GET("", r.tripHandler.GetSnapshot)
		tripGroup.POST("/waypoints", r.tripHandler.AddWaypoint)
		tripGroup.DELETE("/waypoints/:id", r.tripHandler.RemoveWaypoint)
		tripGroup.DELETE("/waypoints", r.tripHandler.ClearWaypoints)
		tripGroup.POST("/collapse", r.tripHandler.Collapse)
		tripGroup.POST("/hover", r.tripHandler.Hover)
		tripGroup.POST("/enrich", r.tripHandler.Enrich)
		tripGroup.POST("/load/:id", r.tripHandler.LoadRoute)
	}

	// Saved route routes require authentication
	routesGroup := e.Group("/routes")
	routesGroup.Use(r.authMiddleware.Authenticate)
	{
		routesGroup.POST("", r.itineraryHandler.SaveRoute)
		routesGroup.GET("", r.itineraryHandler.ListRoutes)
		routesGroup.GET("/:id", r.itineraryHandler.GetRoute)
		routesGroup.DELETE("/:id", r.itineraryHandler.DeleteRoute)
		routesGroup.GET("/:id/qr", r.itineraryHandler.GetRouteQR)
	}
}
