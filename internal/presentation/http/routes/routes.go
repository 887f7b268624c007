// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/quartzgo/internal/application/container"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates"
	"github.com/AtRiskMedia/quartzgo/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(container.Logger))
	r.Use(middleware.CORSMiddleware(config.AllowedOrigins))

	fragmentHandlers := handlers.NewFragmentHandlers(container.PageService, container.Site, container.Fragments, container.Logger)
	styleHandlers := handlers.NewStyleHandlers(container.BuildService)
	pageHandlers := handlers.NewPageHandlers(container.ContentIndex, container.Logger)
	buildHandlers := handlers.NewBuildHandlers(container.BuildService, container.Logger)
	reloadHandlers := handlers.NewReloadHandlers(container.Reload, config.AllowedOrigins, container.Logger)
	siteHandlers := handlers.NewSiteHandlers(container.OutputDir)

	api := r.Group("/api/v1")
	{
		api.GET("/fragments/logo", fragmentHandlers.GetLogoFragment)
		api.GET("/fragments/:component", fragmentHandlers.GetFragment)
		api.GET("/styles", styleHandlers.GetStyles)
		api.GET("/pages", pageHandlers.ListPages)
		api.GET("/pages/*slug", pageHandlers.GetPage)
		api.GET("/builds/latest", pageHandlers.GetLatestBuild)
		api.GET("/search", pageHandlers.Search)
		api.POST("/build", buildHandlers.TriggerBuild)
	}

	r.GET(templates.ReloadPath, reloadHandlers.Connect)

	// Everything else is the built site.
	r.NoRoute(siteHandlers.Serve)

	return r
}
