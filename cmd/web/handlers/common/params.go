package common

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireSlugParam extracts a non-empty route parameter or returns a 400 error.
func RequireSlugParam(c echo.Context, param string) (string, error) {
	v := strings.TrimSpace(c.Param(param))
	if v == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing "+param)
	}
	return v, nil
}

// OptionalIntQuery parses an optional integer query parameter.
// Returns ok=false when the parameter is absent, and a 400 error when it
// is present but not an integer.
func OptionalIntQuery(c echo.Context, name string) (int, bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, true, nil
}
