package middleware

import (
	"crypto/subtle"

	"relancer/internal/common"

	"github.com/labstack/echo/v4"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth protects the API with a static key. An empty configured
// key disables the check, matching a development setup without
// credentials.
func APIKeyAuth(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" {
				return next(c)
			}

			provided := c.Request().Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				return common.SendUnauthorizedError(c)
			}
			return next(c)
		}
	}
}
