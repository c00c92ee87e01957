package main

import (
	"context"
	"net/http"

	"content-backend/internal/shared/middleware"
	"content-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupContentRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// PUBLIC CONTENT ROUTES
// ========================================
func setupContentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	content := v1.Group("/content")
	{
		content.GET("", c.ContentHandler.ListContent)
		content.GET("/:id", c.ContentHandler.GetContent)
		content.GET("/slug/:slug", c.ContentHandler.GetContentBySlug)
	}
}

// ========================================
// ADMIN ROUTES (write + control surface)
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminKey(c.Config.Admin.APIKey))
	{
		admin.POST("/content", c.AdminHandler.CreateContent)
		admin.GET("/content/:id", c.AdminHandler.GetContentAuthoritative)
		admin.PUT("/content/:id", c.AdminHandler.UpdateContent)
		admin.DELETE("/content/:id", c.AdminHandler.DeleteContent)

		admin.POST("/cache/invalidate", c.AdminHandler.InvalidateCaches)
		admin.POST("/resync", c.AdminHandler.ForceResync)
	}
}

// healthCheckHandler reports per-tier health. A sick source is degraded, not
// down: the snapshot keeps reads alive.
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := "ok"
		tiers := gin.H{
			"snapshot": "ok",
			"source":   "ok",
		}

		if _, err := c.Snapshot.LoadAll(); err != nil {
			tiers["snapshot"] = "error"
			status = "degraded"
		}

		if err := c.DB.HealthCheck(context.Background()); err != nil {
			tiers["source"] = "unavailable"
			status = "degraded"
		}

		if c.Redis != nil {
			tiers["redis"] = "ok"
			if err := c.Redis.HealthCheck(context.Background()); err != nil {
				tiers["redis"] = "unavailable"
			}
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":  status,
			"version": c.Config.App.Version,
			"tiers":   tiers,
		})
	}
}
