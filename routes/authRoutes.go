package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/controllers"
)

func AuthRoutes(server *gin.Engine, _ *config.Config) {
	auth := server.Group("/api/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
	}
}
