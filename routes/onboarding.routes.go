package routes

import (
	"nutrilog/internal/controllers"
	"nutrilog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterOnboardingRoutes(router *gin.Engine, onboardingController *controllers.OnboardingController) {
	onboardingRoutes := router.Group("/onboarding")
	onboardingRoutes.Use(middleware.AuthMiddleware())
	{
		onboardingRoutes.GET("/", onboardingController.GetSurvey)
		onboardingRoutes.POST("/", onboardingController.SubmitSurvey)
	}
}
