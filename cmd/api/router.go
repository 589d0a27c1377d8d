package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhouse-backend/internal/infrastructure/storage"
	"storyhouse-backend/internal/shared/middleware"
	"storyhouse-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	router.LoadHTMLGlob(c.Config.App.Templates)

	// Every route sees the current user; guards below build on it.
	router.Use(middleware.CurrentUser(c.Sessions, c.UserService))

	if disk, ok := c.Backend.(*storage.DiskStorage); ok {
		router.Static("/uploads", disk.Dir())
	}

	router.GET("/healthz", healthCheckHandler(c))

	// Public reads
	router.GET("/", c.StoryHandler.Home)
	router.GET("/home", c.StoryHandler.Home)
	router.GET("/story/:id", c.StoryHandler.ShowStory)

	// Account routes
	anonymous := router.Group("", middleware.AnonymousOnly())
	{
		anonymous.GET("/register", c.UserHandler.ShowRegister)
		anonymous.POST("/register", c.UserHandler.Register)
		anonymous.GET("/login", c.UserHandler.ShowLogin)
		anonymous.POST("/login", c.UserHandler.Login)
	}
	router.GET("/logout", c.UserHandler.Logout)

	// Publishing (author-only)
	authors := router.Group("/story", middleware.RequireAuthor(c.Sessions))
	{
		authors.GET("/new", c.StoryHandler.ShowNewStory)
		authors.POST("/new", c.StoryHandler.CreateStory)
	}

	// Commenting (any authenticated user)
	authed := router.Group("/story", middleware.RequireAuthenticated())
	{
		authed.POST("/:id/comment", c.StoryHandler.AddComment)
	}

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.DB.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "component": "database"})
			return
		}
		if err := c.Redis.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "component": "redis"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
