package errors

import (
	"net/http"

	"itinero/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrInvalidCoordinate = NewBaseError(
		http.StatusBadRequest,
		"INVALID_COORDINATE",
		"Latitude or longitude is out of range",
		"",
	)

	// Trip session errors
	ErrWaypointNotFound = NewBaseError(
		http.StatusNotFound,
		"WAYPOINT_NOT_FOUND",
		"Waypoint does not exist in the current trip",
		"",
	)

	ErrNotEnoughWaypoints = NewBaseError(
		http.StatusBadRequest,
		"NOT_ENOUGH_WAYPOINTS",
		"At least 2 waypoints are required",
		"",
	)

	ErrWaypointLimitReached = NewBaseError(
		http.StatusConflict,
		"WAYPOINT_LIMIT_REACHED",
		"The trip already holds the maximum number of waypoints",
		"",
	)

	ErrMarkerNotFound = NewBaseError(
		http.StatusNotFound,
		"MARKER_NOT_FOUND",
		"No marker exists for the given key",
		"",
	)

	// Upstream provider errors
	ErrRoutingUnavailable = NewBaseError(
		http.StatusBadGateway,
		"ROUTING_UNAVAILABLE",
		"The routing engine could not compute a route",
		"",
	)

	ErrEnrichmentMalformed = NewBaseError(
		http.StatusBadGateway,
		"ENRICHMENT_MALFORMED",
		"The narrative backend returned a malformed response",
		"",
	)

	ErrEnrichmentMismatch = NewBaseError(
		http.StatusBadGateway,
		"ENRICHMENT_MISMATCH",
		"The narrative backend did not return one result per address",
		"",
	)

	// Saved route errors. Not-owned records report as not found so that
	// existence never leaks to unauthorized callers.
	ErrRouteNotFound = NewBaseError(
		http.StatusNotFound,
		"ROUTE_NOT_FOUND",
		"Route not found",
		"",
	)

	// Authentication-related errors
	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Missing or invalid credentials",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
