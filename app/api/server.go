package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
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
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key"}
	r.Use(cors.New(corsConfig))

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/feeds/news", handler.GetNewsFeed)
	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	{
		api.GET("/news", handler.GetNews)
		api.GET("/news.csv", handler.GetNewsCSV)
		api.GET("/rates", handler.GetRate)
		api.GET("/forex", handler.GetForex)
		api.GET("/forex.csv", handler.GetForexCSV)
	}

	alerts := api.Group("/alerts")
	if apiAccessKey != "" {
		alerts.Use(authMiddleware(apiAccessKey))
		slog.Info("Alert endpoints require authentication")
	} else {
		slog.Warn("Alert endpoints are unauthenticated (API_ACCESS_KEY not set)")
	}
	{
		alerts.GET("", handler.ListAlerts)
		alerts.PUT("/:base/:target", handler.SetAlert)
		alerts.DELETE("/:base/:target", handler.DeleteAlert)
	}

	r.GET("/", func(c *gin.Context) {
		authNote := ""
		if apiAccessKey != "" {
			authNote = " (requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "IT Financial Dashboard",
			"version":     handler.version(),
			"description": "IT sector news with summaries and sentiment, plus INR exchange rates with alerts",
			"endpoints": map[string]string{
				"news":       "/api/news?source=<name>&sentiment=<Positive|Negative|Neutral>",
				"news_csv":   "/api/news.csv",
				"news_feed":  "/feeds/news",
				"rate":       "/api/rates?base=<code>&target=<code>",
				"forex":      "/api/forex",
				"forex_csv":  "/api/forex.csv",
				"alerts":     "/api/alerts" + authNote,
				"set_alert":  "/api/alerts/<base>/<target> (PUT {\"threshold\": n})" + authNote,
				"drop_alert": "/api/alerts/<base>/<target> (DELETE)" + authNote,
				"health":     "/health",
			},
			"auth": map[string]interface{}{
				"required": apiAccessKey != "",
				"header":   "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
