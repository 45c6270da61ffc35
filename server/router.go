package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pb33f/harview/motor"
)

// Router handles HTTP routing
type Router struct {
	engine  *gin.Engine
	handler *Handler
	logger  *slog.Logger
}

// NewRouter creates the api router over a loaded capture and a filter store.
func NewRouter(capture *motor.Capture, store motor.FilterStore, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Router{
		engine:  gin.New(),
		handler: NewHandler(capture, store, logger),
		logger:  logger,
	}

	r.engine.Use(gin.Recovery())
	r.engine.Use(corsMiddleware())
	r.engine.Use(r.requestLogger())

	r.setupRoutes()

	return r
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.handler.HealthCheck)

	api := r.engine.Group("/api")
	{
		api.GET("/capture", r.handler.GetCapture)
		api.GET("/entries", r.handler.ListEntries)
		api.GET("/waterfall", r.handler.GetWaterfall)
		api.GET("/summary", r.handler.GetSummary)

		// filters
		api.GET("/filters", r.handler.ListFilters)
		api.POST("/filters", r.handler.CreateFilter)
		api.POST("/filters/validate", r.handler.ValidateFilter)
		api.POST("/filters/reorder", r.handler.ReorderFilters)
		api.GET("/filters/counts", r.handler.GetFilterCounts)
		api.PUT("/filters/:id", r.handler.UpdateFilter)
		api.DELETE("/filters/:id", r.handler.DeleteFilter)
	}
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// requestLogger logs each request at debug level, failures at warn
func (r *Router) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r.logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start))
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
