package routes

import (
	"nutrilog/internal/controllers"
	"nutrilog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterFoodLogRoutes(router *gin.Engine, foodLogController *controllers.FoodLogController) {
	foodLogRoutes := router.Group("/food-logs")
	foodLogRoutes.Use(middleware.AuthMiddleware())
	{
		foodLogRoutes.GET("/", foodLogController.ListFoodLogs)
		foodLogRoutes.POST("/", foodLogController.CreateFoodLog)
		foodLogRoutes.PATCH("/:id", foodLogController.UpdateFoodLog)
		foodLogRoutes.DELETE("/:id", foodLogController.DeleteFoodLog)
	}
}
