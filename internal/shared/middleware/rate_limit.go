package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"booknest/internal/domains/identity"
	"booknest/internal/shared"
	"booknest/internal/shared/response"
	"booknest/internal/shared/utils"
	"booknest/pkg/cache"
	"booknest/pkg/logger"
)

const rateLimitScope = "ratelimit"

// AnonymousRateLimit caps writes from callers without a session, keyed by the
// hashed client network identifier. Signed-in callers pass through.
// A cache failure lets the request through.
func AnonymousRateLimit(store cache.Cache, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) != nil {
			c.Next()
			return
		}

		clientIP := c.GetString(shared.ContextKeyClientIP)
		if clientIP == "" {
			clientIP = utils.ExtractClientIP(c.Request)
		}
		key := fmt.Sprintf("%s:anon:%s", rateLimitScope, identity.Hash(clientIP, rateLimitScope))

		ctx := c.Request.Context()
		count, err := store.Increment(ctx, key)
		if err != nil {
			logger.Warn("rate limit check skipped", map[string]interface{}{"error": err.Error()})
			c.Next()
			return
		}

		if count == 1 {
			if err := store.Expire(ctx, key, window); err != nil {
				logger.Warn("rate limit expiry not set", map[string]interface{}{"error": err.Error()})
			}
		}

		if count > int64(limit) {
			retryAfter := window
			if ttl, err := store.TTL(ctx, key); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			response.FromError(c, shared.NewRateLimitedError())
			c.Abort()
			return
		}

		c.Next()
	}
}
