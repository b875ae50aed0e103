package routes

import (
	"nutrilog/internal/controllers"
	"nutrilog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterProfileRoutes(router *gin.Engine, profileController *controllers.ProfileController) {
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware())
	{
		profileRoutes.GET("/", profileController.GetProfile)
		profileRoutes.PATCH("/", profileController.UpdateProfile)
		profileRoutes.PATCH("/goals", profileController.UpdateGoals)
		profileRoutes.DELETE("/", profileController.DeleteProfile)
	}
}
