package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured. The sync
// and admin endpoints are guarded by a shared secret; when no secret is
// configured, only localhost requests pass.
func NewServer(handler *Handler, syncAPIKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	setupRoutes(r, handler, syncAPIKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, syncAPIKey string) {
	r.GET("/health", handler.GetHealth)
	r.GET("/works", handler.ListWorks)

	subs := r.Group("/subscriptions")
	subs.Use(sharedSecretMiddleware(syncAPIKey))
	{
		subs.GET("", handler.ListSubscriptions)
		subs.POST("", handler.CreateSubscription)
		subs.GET("/:id", handler.GetSubscription)
		subs.PUT("/:id", handler.UpdateSubscription)
		subs.DELETE("/:id", handler.DeleteSubscription)

		subs.POST("/:id/sync", handler.SyncOne)
		subs.GET("/sync-all", handler.SyncAll)
	}

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// sharedSecretMiddleware checks the X-API-Key header or apiKey query
// parameter against the configured secret. With no secret configured,
// requests from localhost are let through for development use.
func sharedSecretMiddleware(expectedKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")
		if providedKey == "" {
			providedKey = c.Query("apiKey")
		}

		isLocalhost := c.ClientIP() == "127.0.0.1" || c.ClientIP() == "::1"

		if expectedKey == "" && isLocalhost {
			c.Next()
			return
		}

		if providedKey == "" || providedKey != expectedKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
