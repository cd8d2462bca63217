// Package http contains the Echo handlers for the REST API. Handlers
// bind and validate input, delegate to a service, and return errors as
// is; the server's error handler maps domain errors to status codes.
package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/communityhub/core/internal/ports"
)

// ClaimsContextKey is where the auth middleware stores the validated
// token claims.
const ClaimsContextKey = "user_claims"

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// getClaims returns the authenticated caller's claims, or nil on
// unauthenticated routes.
func getClaims(c echo.Context) *ports.Claims {
	claims, _ := c.Get(ClaimsContextKey).(*ports.Claims)
	return claims
}

// requireClaims returns the caller's claims or a 401. Routes behind the
// auth middleware always have them; this guards against miswiring.
func requireClaims(c echo.Context) (*ports.Claims, error) {
	claims := getClaims(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return claims, nil
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// pageParams reads page/limit query parameters with sane bounds.
func pageParams(c echo.Context) (page, limit int, err error) {
	page, limit = 1, defaultPageLimit

	if raw := c.QueryParam("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid page parameter")
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
	}
	return page, limit, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
