package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	httpHandlers "github.com/communityhub/core/internal/adapters/http"
	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// authMiddleware validates bearer tokens and stores the claims in the
// request context.
func (s *Server) authMiddleware(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(httpHandlers.ClaimsContextKey, claims)

			return next(c)
		}
	}
}

// customErrorHandler maps domain errors to HTTP status codes. Services
// wrap every failure in one of the entities sentinel errors, so the
// mapping here is a closed table rather than string matching.
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var httpErr *echo.HTTPError
		var validationErrs validator.ValidationErrors

		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			msg = map[string]interface{}{"error": httpErr.Message}
			if httpErr.Internal != nil {
				err = fmt.Errorf("%v, %v", err, httpErr.Internal)
			}
		case errors.As(err, &validationErrs):
			code = http.StatusBadRequest
			msg = ports.ErrorResponse{Error: validationErrs.Error()}
		default:
			code = statusForDomainError(err)
			if code == http.StatusInternalServerError {
				msg = ports.ErrorResponse{Error: http.StatusText(code)}
			} else {
				msg = ports.ErrorResponse{Error: err.Error()}
			}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}

func statusForDomainError(err error) int {
	switch {
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entities.ErrForbidden),
		errors.Is(err, entities.ErrFounderImmutable):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrNotFound),
		errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrPostNotFound),
		errors.Is(err, entities.ErrArticleNotFound),
		errors.Is(err, entities.ErrCommentNotFound),
		errors.Is(err, entities.ErrAnnouncementNotFound),
		errors.Is(err, entities.ErrDocumentNotFound),
		errors.Is(err, entities.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrDuplicateID),
		errors.Is(err, entities.ErrEmailTaken),
		errors.Is(err, entities.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
