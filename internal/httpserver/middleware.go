package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kavin1122/task-management/internal/service/auth"
	"github.com/kavin1122/task-management/internal/util"
	"github.com/kavin1122/task-management/pkg/metrics"
)

// AuthMiddleware verifies the bearer token and short-circuits with 401
// before any handler runs. The verified identity is stored in the
// request context for handlers and authorization checks.
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			metrics.IncrementAuthFailure("missing_token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		identity, err := authService.VerifyToken(token)
		if err != nil {
			metrics.IncrementAuthFailure("invalid_token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("identity", *identity)

		c.Next()
	}
}

// MetricsMiddleware records per-request latency labeled by route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
