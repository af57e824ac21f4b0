package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/controllers"
	"marketplace-backend/middlewares"
	"marketplace-backend/models"
)

func VendorRoutes(server *gin.Engine, cfg *config.Config) {
	vendors := server.Group("/api/vendors", middlewares.Protect(cfg.JWTSecret, models.RoleVendor))
	{
		vendors.GET("/stats", controllers.VendorStats)
		vendors.GET("/products", controllers.VendorProducts)
		vendors.POST("/products", controllers.CreateProduct)
		vendors.PUT("/products/:id", controllers.UpdateProduct)
		vendors.DELETE("/products/:id", controllers.DeleteProduct)
		vendors.GET("/orders", controllers.VendorOrders)
		vendors.PUT("/orders/:id", controllers.UpdateOrderStatus)
	}
}
