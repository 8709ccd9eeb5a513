package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/container"
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

		setupAuthRoutes(v1, c)
		setupArticleRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

func setupArticleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.AuthMiddleware(c.JWTManager)

	articles := v1.Group("/articles")
	{
		// Reads are public, writes need a verified caller.
		articles.GET("", c.ArticleHandler.FindAll)
		articles.GET("/:id", c.ArticleHandler.FindOne)
		articles.POST("", requireAuth, c.ArticleHandler.Create)
		articles.PATCH("/:id", requireAuth, c.ArticleHandler.Update)
		articles.DELETE("/:id", requireAuth, c.ArticleHandler.Remove)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "cache": "ok"}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["cache"] = err.Error()
		}

		ctx.JSON(status, gin.H{
			"status": http.StatusText(status),
			"checks": checks,
		})
	}
}
