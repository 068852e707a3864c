package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"roostermarket/pkg/errors"
	"roostermarket/pkg/response"
)

// RequireRole allows the request only when the session's role is one of roles.
// It must run after Authenticate.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := GetSession(c)
			if !sess.IsAuthenticated() {
				return response.Error(c, errors.Unauthorized("Authentication required", nil))
			}

			for _, role := range roles {
				if sess.Role == role {
					return next(c)
				}
			}
			return response.Error(c, errors.Forbidden(strings.Join(roles, " or ")+" role required", nil))
		}
	}
}
