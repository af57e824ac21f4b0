package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/controllers"
	"marketplace-backend/middlewares"
)

func UserRoutes(server *gin.Engine, cfg *config.Config) {
	users := server.Group("/api/users", middlewares.Protect(cfg.JWTSecret))
	{
		users.GET("/profile", controllers.GetProfile)
		users.PUT("/profile", controllers.UpdateProfile)
		users.GET("/vendors", controllers.ListVendors)
	}
}
