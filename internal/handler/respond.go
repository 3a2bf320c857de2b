package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"blogly/internal/errors"
)

// parseID reads the positive integer path parameter name.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// bind decodes the JSON body into req and runs the echo validator on it.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return fail(err)
	}
	return nil
}

// fail converts a service error into the HTTP error echo renders.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
