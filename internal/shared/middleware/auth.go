package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"booknest/internal/shared"
	"booknest/internal/shared/response"
	"booknest/pkg/jwt"
	"booknest/pkg/logger"
)

// SessionCookie is the cookie the session provider sets on the web client
const SessionCookie = "booknest_session"

// SessionMiddleware attaches the session user when a valid token is present.
// Missing or invalid tokens leave the request anonymous; use RequireSession to reject them.
func SessionMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := manager.ValidateToken(token)
		if err != nil {
			logger.Debug("session token rejected: " + err.Error())
			c.Next()
			return
		}

		c.Set(shared.ContextKeySession, claims.SessionUser())
		c.Next()
	}
}

// RequireSession aborts with 401 unless SessionMiddleware attached a user
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			response.Unauthorized(c, "Sign in to continue")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession returns the session user or nil for anonymous requests
func GetSession(c *gin.Context) *shared.SessionUser {
	v, ok := c.Get(shared.ContextKeySession)
	if !ok {
		return nil
	}
	user, _ := v.(*shared.SessionUser)
	return user
}

// extractToken reads "Authorization: Bearer <token>", then the session cookie
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
