package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"booknest/internal/shared"
	"booknest/internal/shared/utils"
)

// ClientIPMiddleware stores the client network identifier on the gin context.
// It is the same value the identity resolver hashes for anonymous actions.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c.Request)
		c.Set(shared.ContextKeyClientIP, clientIP)

		log.Debug().
			Str("ip", clientIP).
			Bool("is_private", utils.IsPrivateIP(clientIP)).
			Str("path", c.Request.URL.Path).
			Msg("Client IP extracted")

		c.Next()
	}
}
