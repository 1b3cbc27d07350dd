package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"livra_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	// Limite générale par IP sur le groupe API
	APIMaxRequests = 100
	APIWindow      = 1 * time.Minute
)

// APIRateLimit limite les requêtes par IP via des compteurs Redis
func APIRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		key := "api_rate:" + c.ClientIP()

		pipe := database.Redis.Pipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, APIWindow)
		if _, err := pipe.Exec(ctx); err != nil {
			// Redis indisponible : on laisse passer plutôt que de bloquer tout le trafic
			c.Next()
			return
		}

		count := incr.Val()
		if count > APIMaxRequests {
			ttl := database.Redis.TTL(ctx, key).Val()
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Trop de requêtes, réessayez dans quelques instants",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", APIMaxRequests-count))
		c.Next()
	}
}
