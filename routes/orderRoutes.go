package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/controllers"
	"marketplace-backend/middlewares"
	"marketplace-backend/models"
)

func OrderRoutes(server *gin.Engine, cfg *config.Config) {
	customer := middlewares.Protect(cfg.JWTSecret, models.RoleCustomer)

	orders := server.Group("/api/orders")
	{
		orders.POST("", customer, controllers.CreateOrder)
		orders.GET("/my-orders", customer, controllers.MyOrders)
		orders.GET("/:id", middlewares.Protect(cfg.JWTSecret), controllers.GetOrder)
		orders.PUT("/:id/cancel", customer, controllers.CancelOrder)
		orders.PUT("/:id/status", middlewares.Protect(cfg.JWTSecret, models.RoleVendor, models.RoleAdmin), controllers.UpdateOrderStatus)
	}
}
