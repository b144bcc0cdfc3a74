package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playtube/user-service/internal/domain"
	"github.com/playtube/user-service/internal/service"
)

const userContextKey = "user"

// AuthMiddleware validates the inbound access token and resolves it to
// a user before any protected handler runs. The token is read from the
// accessToken cookie or, failing that, the Authorization header.
func AuthMiddleware(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			abortUnauthorized(c, "access token is required")
			return
		}

		user, err := sessions.Authorize(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired access token")
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// AuthenticatedUser returns the user resolved by AuthMiddleware.
func AuthenticatedUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}

func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
