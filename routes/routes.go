package routes

import (
	"CourseShelf/config"
	"CourseShelf/controllers"
	"CourseShelf/middlewares"
	"CourseShelf/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes initializes all API routes.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, content *controllers.ContentController, auth *controllers.AuthController, creds *services.CredentialService) {
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderContentType, middlewares.AdminPasswordHeader},
	}))
	e.Use(middleware.BodyLimit("50M"))
	e.Use(middlewares.ErrorHandler())

	// Public routes
	api := e.Group("/api")
	api.GET("/health", controllers.Health)
	api.POST("/verify-password", auth.VerifyPassword)
	api.GET("/content/:subject/:feature/:chapter", content.GetContent)
	api.GET("/all-content", content.ListContent)

	// Mutating routes, each request re-verified against the credential
	admin := api.Group("", middlewares.RequireAdmin(creds))
	admin.POST("/change-password", auth.ChangePassword)
	admin.POST("/upload-file", content.Upload)
	admin.POST("/save-text", content.SaveText)
	admin.DELETE("/content/:id", content.DeleteContent)

	e.GET("/download/:filename", content.Download)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if cfg.FrontendDir != "" {
		e.Static("/", cfg.FrontendDir)
	}
}
