package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventory-console/internal/config"
	"github.com/inventory-console/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	router.SetHTMLTemplate(pageTemplate)

	// Handlers
	consoleHandler := NewConsoleHandler(services, log)
	formHandler := NewFormHandler(services, log)
	transferHandler := NewTransferHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/", consoleHandler.Page)

	ui := router.Group("/ui")
	{
		items := ui.Group("/items")
		{
			items.GET("", consoleHandler.ListItems)
			items.POST("/refresh", consoleHandler.RefreshItems)
			items.GET("/search", consoleHandler.SearchItems)
			items.DELETE("/:id", consoleHandler.DeleteItem)
		}

		role := ui.Group("/role")
		{
			role.GET("", consoleHandler.GetRole)
			role.PUT("", consoleHandler.SetRole)
			role.POST("/toggle", consoleHandler.ToggleRole)
		}

		forms := ui.Group("/forms")
		{
			forms.POST("", formHandler.OpenCreate)
			forms.POST("/edit/:item_id", formHandler.OpenEdit)
			forms.GET("/:form_id", formHandler.GetForm)
			forms.PATCH("/:form_id/fields", formHandler.SetField)
			forms.POST("/:form_id/submit", formHandler.Submit)
			forms.DELETE("/:form_id", formHandler.Cancel)
		}

		ui.GET("/export", transferHandler.Export)
		ui.POST("/import", transferHandler.Import)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "inventory-console",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		statusCode := c.Writer.Status()
		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
