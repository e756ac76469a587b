package api

import (
	"net/http"

	"thanhmai/atelier-app/internal/domain"
	"thanhmai/atelier-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	imageService service.ImageService,
) {
	authHandler := NewAuthHandler(authService)
	imageHandler := NewImageHandler(imageService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Public read surface for the site frontend.
		imageGroup := apiV1.Group("/images")
		{
			// GET /api/v1/images?folder=gallery
			imageGroup.GET("", imageHandler.ListImages)
			imageGroup.GET("/:id", imageHandler.GetImage)
		}
	}

	// Admin surface: authenticated staff only.
	admin := apiV1.Group("/admin")
	admin.Use(authMiddleware, RoleMiddleware(domain.RoleAdmin, domain.RoleEditor))
	{
		admin.POST("/images", imageHandler.UploadImage)
		admin.DELETE("/images/:id", imageHandler.DeleteImage)
		admin.GET("/images/folders", imageHandler.ListFolders)
	}
}
