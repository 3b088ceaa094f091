package api

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
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

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler, apiAccessKey)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Public company endpoints
	r.GET("/companies", handler.ListCompanies)
	r.GET("/companies/:slug", handler.GetCompany)
	r.GET("/companies/:slug/timeline", handler.GetCompanyTimeline)

	// Public story endpoints
	r.GET("/stories", handler.ListStories)
	r.GET("/stories/trending", handler.TrendingStories)
	r.POST("/stories/:id/like", handler.LikeStory)
	r.POST("/stories/:id/view", handler.ViewStory)

	// Lookups and submissions
	r.GET("/categories", handler.GetCategories)
	r.GET("/industries", handler.GetIndustries)
	r.POST("/submissions", handler.CreateSubmission)

	// Health endpoint
	r.GET("/health", handler.HealthCheck)

	// Admin API endpoints (conditionally enabled with authentication)
	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.GET("/submissions", handler.APIListSubmissions)
			api.POST("/submissions/:id/approve", handler.APIApproveSubmission)
			api.POST("/submissions/:id/reject", handler.APIRejectSubmission)

			api.GET("/stories", handler.APIListStories)
			api.POST("/stories", handler.APICreateStory)
			api.PUT("/stories/:id", handler.APIUpdateStory)
			api.DELETE("/stories/:id", handler.APIDeleteStory)

			api.POST("/stories/import", handler.APIImportStories)
			api.GET("/stories/csv-template", handler.APICSVTemplate)

			api.POST("/sources/:name/ingest", handler.APIIngestSource)
		}
		log.Printf("Admin API endpoints enabled with authentication")
	} else {
		log.Printf("Admin API endpoints disabled (API_ACCESS_KEY not set)")
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"timeline":    "/companies/<slug>/timeline",
			"companies":   "/companies",
			"company":     "/companies/<slug>",
			"stories":     "/stories",
			"trending":    "/stories/trending",
			"categories":  "/categories",
			"industries":  "/industries",
			"submissions": "/submissions (POST)",
			"health":      "/health",
		}

		// Add admin endpoints if authentication is enabled
		if apiAccessKey != "" {
			endpoints["admin_submissions"] = "/api/submissions (requires X-API-Key header)"
			endpoints["admin_stories"] = "/api/stories (requires X-API-Key header)"
			endpoints["admin_import"] = "/api/stories/import (POST, requires X-API-Key header)"
		}

		c.JSON(200, gin.H{
			"service":     "Startup Pulse",
			"version":     "1.0.0",
			"description": "Startup news aggregator with company timelines, funding data, and story feeds",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for admin API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get API key from X-API-Key header
		providedKey := c.GetHeader("X-API-Key")

		// Also check Authorization header with Bearer prefix
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
