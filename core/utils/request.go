package utils

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// GetUserID returns the opaque user identifier the middleware stored on the
// request context.
func GetUserID(c echo.Context) (string, error) {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user id missing from request context")
	}
	return userID, nil
}
