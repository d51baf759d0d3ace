// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/internal/application/container"
	"github.com/StackForgeHQ/stackforge-go/internal/presentation/http/handlers"
	"github.com/StackForgeHQ/stackforge-go/internal/presentation/http/middleware"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Uploaded originals and thumbnails are served straight off disk.
	r.Static("/media", config.MediaBasePath)

	authHandlers := handlers.NewAuthHandlers(c.Logger, c.PerfTracker)
	pageHandlers := handlers.NewPageHandlers(c.PageService, c.Logger, c.PerfTracker)
	newsHandlers := handlers.NewNewsHandlers(c.NewsService, c.Logger, c.PerfTracker)
	memberHandlers := handlers.NewMemberHandlers(c.MemberService, c.Logger, c.PerfTracker)
	imageFileHandlers := handlers.NewImageFileHandlers(c.ImageFileService, c.Logger, c.PerfTracker)
	surfaceHandlers := handlers.NewSurfaceHandlers(c.SurfaceSession, c.Logger)
	healthHandlers := handlers.NewHealthHandlers(c.DB, c.CacheManager, c.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandlers.Login)
		api.GET("/auth/status", authHandlers.Status)
		api.GET("/health", healthHandlers.Health)

		authed := api.Group("")
		authed.Use(middleware.AdminAuthMiddleware())
		{
			authed.GET("/pages", pageHandlers.GetAllPageIDs)
			authed.POST("/pages/bulk", pageHandlers.GetPagesByIDs)
			authed.GET("/pages/:id", pageHandlers.GetPageByID)
			authed.POST("/pages", pageHandlers.CreatePage)
			authed.PUT("/pages/:id", pageHandlers.UpdatePage)
			authed.DELETE("/pages/:id", pageHandlers.DeletePage)
			authed.GET("/pages/:id/artifact", pageHandlers.FetchArtifact)
			authed.PUT("/pages/:id/artifact", pageHandlers.SaveArtifact)
			authed.POST("/pages/artifact", pageHandlers.SaveArtifact)
			authed.POST("/pages/:id/publish", pageHandlers.PublishPage)
			authed.POST("/pages/:id/archive", pageHandlers.ArchivePage)
			authed.POST("/pages/:id/duplicate", pageHandlers.DuplicatePage)

			authed.GET("/news", newsHandlers.GetAllNews)
			authed.GET("/news/:id", newsHandlers.GetNewsByID)
			authed.POST("/news", newsHandlers.CreateNews)
			authed.PUT("/news/:id", newsHandlers.UpdateNews)
			authed.POST("/news/:id/publish", newsHandlers.PublishNews)
			authed.DELETE("/news/:id", newsHandlers.DeleteNews)

			authed.GET("/members", memberHandlers.GetAllMembers)
			authed.GET("/members/:id", memberHandlers.GetMemberByID)
			authed.POST("/members", memberHandlers.CreateMember)
			authed.PUT("/members/:id", memberHandlers.UpdateMember)
			authed.DELETE("/members/:id", memberHandlers.DeleteMember)

			authed.GET("/files", imageFileHandlers.ListFiles)
			authed.GET("/files/:id", imageFileHandlers.GetFileByID)
			authed.POST("/files/upload", imageFileHandlers.UploadFile)
			authed.PUT("/files/:id", imageFileHandlers.UpdateFileAlt)
			authed.DELETE("/files/:id", imageFileHandlers.DeleteFile)

			authed.GET("/surface/ws", surfaceHandlers.Connect)
		}
	}

	return r
}
