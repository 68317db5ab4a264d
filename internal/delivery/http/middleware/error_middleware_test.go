package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "itinero/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/trip", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) domainerrors.Response {
	t.Helper()

	var body domainerrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestHandleHTTPError(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("renders AppError with its own status and code", func(t *testing.T) {
		c, rec := newErrorContext(t)

		m.HandleHTTPError(domainerrors.ErrRouteNotFound, c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeResponse(t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, "ROUTE_NOT_FOUND", body.Error.Code)
	})

	t.Run("unwraps a wrapped AppError", func(t *testing.T) {
		c, rec := newErrorContext(t)

		wrapped := errors.Wrap(domainerrors.ErrRoutingUnavailable, "planning trip")
		m.HandleHTTPError(wrapped, c)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "ROUTING_UNAVAILABLE", decodeResponse(t, rec).Error.Code)
	})

	t.Run("renders database errors as internal", func(t *testing.T) {
		c, rec := newErrorContext(t)

		m.HandleHTTPError(domainerrors.NewDatabaseExecuteError(assert.AnError, "insert route"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeResponse(t, rec)
		assert.Equal(t, "DATABASE_EXECUTE_FAILED", body.Error.Code)
		assert.Equal(t, "insert route", body.Error.Details)
	})

	t.Run("passes echo HTTP errors through", func(t *testing.T) {
		c, rec := newErrorContext(t)

		m.HandleHTTPError(echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), c)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "HTTP_ERROR", decodeResponse(t, rec).Error.Code)
	})

	t.Run("defaults unknown errors to 500", func(t *testing.T) {
		c, rec := newErrorContext(t)

		m.HandleHTTPError(assert.AnError, c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "INTERNAL_ERROR", decodeResponse(t, rec).Error.Code)
	})
}
