package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/s3-uploads-api/internal/logger"
	"github.com/s3-uploads-api/internal/middleware"
)

// RouterDeps are the handlers and settings the router is built from.
type RouterDeps struct {
	Log            *logger.Logger
	AdminJWTSecret string
	Upload         *UploadHandler
	Admin          *AdminHandler
}

// SetupRouter registers every route. It is called only after the initial
// settings fetch succeeded.
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Log))
	router.SetHTMLTemplate(AdminTemplates)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "s3-uploads"})
	})

	upload := router.Group("/api/upload")
	{
		upload.POST("/file", deps.Upload.UploadFile)
		upload.POST("/image", deps.Upload.UploadImage)
	}

	// Admin page and data (requires admin JWT)
	page := router.Group("/admin/plugins/s3-uploads")
	page.Use(middleware.AdminAuth(deps.AdminJWTSecret), middleware.ApplyCSRF())
	{
		page.GET("", deps.Admin.RenderAdmin)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuth(deps.AdminJWTSecret))
	{
		admin.GET("/menu", deps.Admin.Menu)
		admin.GET("/plugins/s3-uploads", middleware.ApplyCSRF(), deps.Admin.AdminData)

		// Mutations require the double-submit token as well
		mutate := admin.Group("/plugins/s3-uploads")
		mutate.Use(middleware.VerifyCSRF())
		{
			mutate.POST("/s3settings", deps.Admin.S3Settings)
			mutate.POST("/credentials", deps.Admin.Credentials)
		}
	}

	return router
}
