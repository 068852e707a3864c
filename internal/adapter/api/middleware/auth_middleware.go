package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"roostermarket/internal/domain/entity"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/response"
)

const sessionKey = "session"

// SessionResolver turns a bearer token into the caller's session.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
}

type AuthMiddleware struct {
	resolver SessionResolver
}

func NewAuthMiddleware(resolver SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
	}
}

// Authenticate rejects requests without a valid token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		sess, err := m.resolver.Authenticate(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, err)
		}

		c.Set(sessionKey, sess)
		return next(c)
	}
}

// Optional attaches a session when a valid token is present and otherwise lets
// the request through anonymously.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, ok := bearerToken(c); ok {
			if sess, err := m.resolver.Authenticate(c.Request().Context(), token); err == nil {
				c.Set(sessionKey, sess)
			}
		}
		return next(c)
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		// websocket clients cannot set headers
		if token := c.QueryParam("token"); token != "" && c.IsWebSocket() {
			return token, true
		}
		return "", false
	}
	return parts[1], true
}

// GetSession returns the request's session, or nil for anonymous requests.
func GetSession(c echo.Context) *entity.Session {
	sess, _ := c.Get(sessionKey).(*entity.Session)
	return sess
}
