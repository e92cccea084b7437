package middleware

import (
	"net/http"

	"dayflow-api/core/constants"
	"dayflow-api/core/controller"
	"dayflow-api/core/errors"

	"github.com/labstack/echo/v4"
)

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// UserContext reads the opaque user identifier from the X-User-ID header and
// stores it on the request context. Identity verification is the API
// gateway's problem; this core accepts the id as given.
func (m *Middleware) UserContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(constants.HeaderUserID)
			if userID == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrUnauthenticated, "missing "+constants.HeaderUserID+" header")
			}
			c.Set("user_id", userID)
			return next(c)
		}
	}
}
