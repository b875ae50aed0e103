package routes

import (
	"nutrilog/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterOauthRoutes(router *gin.Engine, oauthController *controllers.OauthController) {
	oauthRoutes := router.Group("/auth")
	{
		oauthRoutes.POST("/google", oauthController.GoogleAuth)
	}
}
