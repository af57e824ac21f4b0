package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/controllers"
	"marketplace-backend/middlewares"
	"marketplace-backend/models"
)

func CartRoutes(server *gin.Engine, cfg *config.Config) {
	cart := server.Group("/api/cart", middlewares.Protect(cfg.JWTSecret, models.RoleCustomer))
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/add", controllers.AddToCart)
		cart.PUT("/update", controllers.UpdateCartItem)
		cart.DELETE("/remove/:productId", controllers.RemoveCartItem)
		cart.DELETE("/clear", controllers.ClearCart)
	}
}
